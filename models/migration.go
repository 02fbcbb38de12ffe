package models

import (
	"log"

	"github.com/parcops/parc_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Depot{}, &User{},
		&Material{}, &Consumable{}, &Vehicle{},
		&Attribution{}, &AttributionHistory{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
