package models

import (
	"context"
	"errors"
	"time"

	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/utils"
	"gorm.io/gorm"
)

// AttributionHistory is the audit snapshot paired one-to-one with an
// Attribution: the resource state before and after the movement, serialized
// as JSON. Created in the same transaction as its attribution, never alone.
type AttributionHistory struct {
	ID             int          `gorm:"primary_key" json:"id"`
	AttributionId  int          `gorm:"uniqueIndex;not null" json:"attribution_id"`
	ResourceKind   ResourceKind `gorm:"size:20;index;not null" json:"resource_kind"`
	ResourceId     int          `gorm:"index;not null" json:"resource_id"`
	SnapshotBefore string       `gorm:"type:text" json:"snapshot_before"`
	SnapshotAfter  string       `gorm:"type:text;not null" json:"snapshot_after"`
	Note           string       `gorm:"type:text" json:"note"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (AttributionHistory) BeforeUpdate(tx *gorm.DB) error {
	return errors.New("attribution histories are immutable")
}

func (AttributionHistory) BeforeDelete(tx *gorm.DB) error {
	return errors.New("attribution histories are immutable")
}

// GetAttributionHistory fetches the snapshot for one attribution.
func GetAttributionHistory(ctx context.Context, attributionId int) (*AttributionHistory, error) {
	db := config.GetDB()
	var result AttributionHistory

	err := db.WithContext(ctx).Where("attribution_id = ?", attributionId).First(&result).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

// GetResourceHistories lists snapshots of one resource, newest first.
func GetResourceHistories(ctx context.Context, kind ResourceKind, resourceId int, limit int) ([]*AttributionHistory, error) {
	db := config.GetDB()
	var results []*AttributionHistory

	dbCtx := db.WithContext(ctx).
		Where("resource_kind = ? AND resource_id = ?", kind, resourceId).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		dbCtx = dbCtx.Limit(limit)
	}
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func CountAttributionHistories(ctx context.Context) (int64, error) {
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&AttributionHistory{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
