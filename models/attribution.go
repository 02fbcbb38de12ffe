package models

import (
	"context"
	"errors"
	"time"

	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Attribution is one immutable ledger event recording a state-changing
// movement of a resource. Rows are only ever created, inside the movement
// transaction, paired one-to-one with an AttributionHistory snapshot.
type Attribution struct {
	ID            int             `gorm:"primary_key" json:"id"`
	ResourceKind  ResourceKind    `gorm:"size:20;index;not null" json:"resource_kind"`
	ResourceId    int             `gorm:"index;not null" json:"resource_id"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);default:1" json:"quantity"`
	FromDepotId   *int            `gorm:"index" json:"from_depot_id"`
	ToUserId      *int            `gorm:"index" json:"to_user_id"`
	Action        MovementAction  `gorm:"size:20;index;not null" json:"action"`
	AuthorId      int             `gorm:"index" json:"author_id"`
	AuthorName    string          `gorm:"size:100" json:"author_name"`
	Note          string          `gorm:"type:text" json:"note"`
	CorrelationId string          `gorm:"size:36;index" json:"correlation_id"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// the ledger is append-only
func (Attribution) BeforeUpdate(tx *gorm.DB) error {
	return errors.New("attributions are immutable")
}

func (Attribution) BeforeDelete(tx *gorm.DB) error {
	return errors.New("attributions are immutable")
}

type AttributionFilter struct {
	ResourceKind *ResourceKind
	ResourceId   *int
	ToUserId     *int
	FromDepotId  *int
	Action       *MovementAction
	DateFrom     *time.Time
	DateTo       *time.Time
}

func (f AttributionFilter) scope(dbCtx *gorm.DB) *gorm.DB {
	if f.ResourceKind != nil && *f.ResourceKind != "" {
		dbCtx = dbCtx.Where("resource_kind = ?", *f.ResourceKind)
	}
	if f.ResourceId != nil && *f.ResourceId > 0 {
		dbCtx = dbCtx.Where("resource_id = ?", *f.ResourceId)
	}
	if f.ToUserId != nil && *f.ToUserId > 0 {
		dbCtx = dbCtx.Where("to_user_id = ?", *f.ToUserId)
	}
	if f.FromDepotId != nil && *f.FromDepotId > 0 {
		dbCtx = dbCtx.Where("from_depot_id = ?", *f.FromDepotId)
	}
	if f.Action != nil && *f.Action != "" {
		dbCtx = dbCtx.Where("action = ?", *f.Action)
	}
	if f.DateFrom != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		dbCtx = dbCtx.Where("created_at <= ?", *f.DateTo)
	}
	return dbCtx
}

func GetAttribution(ctx context.Context, id int) (*Attribution, error) {
	db := config.GetDB()
	var result Attribution

	err := db.WithContext(ctx).First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

// GetAttributions lists committed ledger events, newest first.
func GetAttributions(ctx context.Context, filter AttributionFilter, limit int) ([]*Attribution, error) {
	db := config.GetDB()
	var results []*Attribution

	dbCtx := filter.scope(db.WithContext(ctx).Model(&Attribution{}))
	if limit > 0 {
		dbCtx = dbCtx.Limit(limit)
	}
	err := dbCtx.Order("created_at DESC, id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func CountAttributions(ctx context.Context, filter AttributionFilter) (int64, error) {
	db := config.GetDB()
	var count int64

	dbCtx := filter.scope(db.WithContext(ctx).Model(&Attribution{}))
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
