package models

import (
	"context"
	"time"

	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/utils"
)

// Depot is a directory record the ledger references by id. The movement core
// validates presence only; depot management lives outside it.
type Depot struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Address   string    `gorm:"size:255" json:"address"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetDepot(ctx context.Context, id int) (*Depot, error) {
	db := config.GetDB()
	var result Depot

	err := db.WithContext(ctx).First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

/*
caches:
	DepotName:$id
*/

// GetDepotName resolves a depot name for the read surface, redis first.
func GetDepotName(ctx context.Context, id int) (string, error) {
	var name string
	key := "DepotName:" + itoa(id)
	exists, err := config.GetRedisObject(key, &name)
	if err != nil {
		return "", err
	}
	if exists {
		return name, nil
	}

	depot, err := GetDepot(ctx, id)
	if err != nil {
		return "", err
	}
	if err := config.SetRedisObject(key, depot.Name, time.Hour); err != nil {
		return "", err
	}
	return depot.Name, nil
}
