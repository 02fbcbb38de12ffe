package workflow

import (
	"github.com/parcops/parc_backend/models"
	"gorm.io/gorm"
)

// appendLedgerPair writes the Attribution and its AttributionHistory snapshot
// as one inseparable pair inside the caller's transaction. It never creates
// one without the other and never touches existing rows.
func appendLedgerPair(tx *gorm.DB, attribution *models.Attribution, before []byte, after []byte, note string) error {
	if err := tx.Create(attribution).Error; err != nil {
		return err
	}

	history := models.AttributionHistory{
		AttributionId:  attribution.ID,
		ResourceKind:   attribution.ResourceKind,
		ResourceId:     attribution.ResourceId,
		SnapshotBefore: string(before),
		SnapshotAfter:  string(after),
		Note:           note,
	}
	return tx.Create(&history).Error
}
