package models_test

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/models"
	"github.com/parcops/parc_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// a single in-memory sqlite connection; more would each see their own DB
	sqlDB.SetMaxOpenConns(1)

	config.UseDatabase(db)
	models.MigrateTable()
	return db
}

func TestResolveResourceKind(t *testing.T) {
	for _, kind := range []models.ResourceKind{
		models.ResourceKindMaterial,
		models.ResourceKindConsumable,
		models.ResourceKindVehicle,
	} {
		binding, err := models.ResolveResourceKind(kind)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if binding.Kind != kind {
			t.Fatalf("binding kind = %s, want %s", binding.Kind, kind)
		}
		if binding.Store == nil || binding.Rules == nil {
			t.Fatalf("%s: incomplete binding", kind)
		}
	}
}

func TestResolveResourceKindRejectsUnknown(t *testing.T) {
	_, err := models.ResolveResourceKind("FURNITURE")
	if !errors.Is(err, utils.ErrorUnknownResourceKind) {
		t.Fatalf("err = %v, want ErrorUnknownResourceKind", err)
	}
}

func TestLoadForUpdateMissingRow(t *testing.T) {
	db := openTestDB(t)

	binding, _ := models.ResolveResourceKind(models.ResourceKindMaterial)
	_, err := binding.Store.LoadForUpdate(db, 9999)
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("err = %v, want ErrorRecordNotFound", err)
	}
}

// Two movements computed from the same pre-image must not both commit:
// the stale save has to surface a conflict, not silently lose the first write.
func TestStaleSaveSurfacesConflict(t *testing.T) {
	db := openTestDB(t)

	consumable := models.Consumable{Name: "RJ45 connectors", Quantity: dec(10)}
	if err := db.Create(&consumable).Error; err != nil {
		t.Fatalf("create consumable: %v", err)
	}

	binding, _ := models.ResolveResourceKind(models.ResourceKindConsumable)

	first, err := binding.Store.LoadForUpdate(db, consumable.ID)
	if err != nil {
		t.Fatalf("load first: %v", err)
	}
	second, err := binding.Store.LoadForUpdate(db, consumable.ID)
	if err != nil {
		t.Fatalf("load second: %v", err)
	}

	for _, r := range []models.Resource{first, second} {
		if err := binding.Rules.Apply(r, models.MovementActionAttribution, dec(6), nil, nil); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	if err := binding.Store.Save(db, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := binding.Store.Save(db, second); !errors.Is(err, utils.ErrorMovementConflict) {
		t.Fatalf("second save err = %v, want ErrorMovementConflict", err)
	}

	var reloaded models.Consumable
	if err := db.First(&reloaded, consumable.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	// assigned grew by exactly one movement's worth
	if !reloaded.AssignedQuantity.Equal(dec(6)) {
		t.Fatalf("assigned = %s, want 6", reloaded.AssignedQuantity)
	}
}

func TestWinnerCanSaveAgainAfterBump(t *testing.T) {
	db := openTestDB(t)

	material := models.Material{Name: "Drill", Quantity: dec(4)}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("create material: %v", err)
	}

	binding, _ := models.ResolveResourceKind(models.ResourceKindMaterial)
	loaded, err := binding.Store.LoadForUpdate(db, material.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := binding.Rules.Apply(loaded, models.MovementActionAttribution, dec(1), nil, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := binding.Store.Save(db, loaded); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// the in-memory copy tracks the bumped version, so a second movement
	// on the same copy still commits
	if err := binding.Rules.Apply(loaded, models.MovementActionAttribution, dec(1), nil, nil); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if err := binding.Store.Save(db, loaded); err != nil {
		t.Fatalf("second save: %v", err)
	}
}

func TestLedgerRowsAreImmutable(t *testing.T) {
	db := openTestDB(t)

	attribution := models.Attribution{
		ResourceKind: models.ResourceKindMaterial,
		ResourceId:   1,
		Quantity:     dec(1),
		Action:       models.MovementActionAjout,
	}
	if err := db.Create(&attribution).Error; err != nil {
		t.Fatalf("create attribution: %v", err)
	}
	history := models.AttributionHistory{
		AttributionId: attribution.ID,
		ResourceKind:  models.ResourceKindMaterial,
		ResourceId:    1,
		SnapshotAfter: "{}",
	}
	if err := db.Create(&history).Error; err != nil {
		t.Fatalf("create history: %v", err)
	}

	if err := db.Model(&attribution).Update("note", "edited").Error; err == nil {
		t.Fatal("attribution update allowed")
	}
	if err := db.Delete(&attribution).Error; err == nil {
		t.Fatal("attribution delete allowed")
	}
	if err := db.Model(&history).Update("note", "edited").Error; err == nil {
		t.Fatal("history update allowed")
	}
	if err := db.Delete(&history).Error; err == nil {
		t.Fatal("history delete allowed")
	}
}
