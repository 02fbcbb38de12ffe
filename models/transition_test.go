package models_test

import (
	"errors"
	"testing"

	"github.com/parcops/parc_backend/models"
	"github.com/parcops/parc_backend/utils"
	"github.com/shopspring/decimal"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func stock(qty, assigned int64) models.StockState {
	return models.StockState{Quantity: dec(qty), AssignedQuantity: dec(assigned)}
}

func TestAttributionConsumesAvailableStock(t *testing.T) {
	// quantity=10 assigned=2, lend 5 -> assigned=7, available=3
	next, err := models.ComputeStockTransition(stock(10, 2), models.MovementActionAttribution, dec(5))
	if err != nil {
		t.Fatalf("ComputeStockTransition: %v", err)
	}
	if !next.AssignedQuantity.Equal(dec(7)) {
		t.Fatalf("assigned = %s, want 7", next.AssignedQuantity)
	}
	if !next.Quantity.Equal(dec(10)) {
		t.Fatalf("quantity = %s, want 10", next.Quantity)
	}
	if !next.Available().Equal(dec(3)) {
		t.Fatalf("available = %s, want 3", next.Available())
	}
}

func TestAttributionFailsWhenAvailableTooLow(t *testing.T) {
	// available is 3; lending 4 must fail without computing a state
	_, err := models.ComputeStockTransition(stock(10, 7), models.MovementActionAttribution, dec(4))
	if !errors.Is(err, utils.ErrorInsufficientStock) {
		t.Fatalf("err = %v, want ErrorInsufficientStock", err)
	}
}

func TestRepriseClampsAtZero(t *testing.T) {
	next, err := models.ComputeStockTransition(stock(10, 3), models.MovementActionReprise, dec(5))
	if err != nil {
		t.Fatalf("ComputeStockTransition: %v", err)
	}
	if !next.AssignedQuantity.Equal(dec(0)) {
		t.Fatalf("assigned = %s, want 0", next.AssignedQuantity)
	}
}

func TestAttributionThenRepriseRoundTrips(t *testing.T) {
	start := stock(10, 2)
	lent, err := models.ComputeStockTransition(start, models.MovementActionAttribution, dec(5))
	if err != nil {
		t.Fatalf("attribution: %v", err)
	}
	back, err := models.ComputeStockTransition(lent, models.MovementActionReprise, dec(5))
	if err != nil {
		t.Fatalf("reprise: %v", err)
	}
	if !back.AssignedQuantity.Equal(start.AssignedQuantity) || !back.Quantity.Equal(start.Quantity) {
		t.Fatalf("round trip ended at %+v, want %+v", back, start)
	}
}

func TestAjoutGrowsPhysicalStockOnly(t *testing.T) {
	next, err := models.ComputeStockTransition(stock(10, 2), models.MovementActionAjout, dec(4))
	if err != nil {
		t.Fatalf("ComputeStockTransition: %v", err)
	}
	if !next.Quantity.Equal(dec(14)) || !next.AssignedQuantity.Equal(dec(2)) {
		t.Fatalf("got %+v, want quantity=14 assigned=2", next)
	}
}

func TestSortieClampsAssignedToQuantity(t *testing.T) {
	// quantity=5 assigned=5, remove 3 -> quantity=2, assigned clamped to 2
	for _, action := range []models.MovementAction{models.MovementActionSortie, models.MovementActionPerte} {
		next, err := models.ComputeStockTransition(stock(5, 5), action, dec(3))
		if err != nil {
			t.Fatalf("%s: %v", action, err)
		}
		if !next.Quantity.Equal(dec(2)) {
			t.Fatalf("%s: quantity = %s, want 2", action, next.Quantity)
		}
		if !next.AssignedQuantity.Equal(dec(2)) {
			t.Fatalf("%s: assigned = %s, want 2", action, next.AssignedQuantity)
		}
	}
}

func TestSortieClampsQuantityAtZero(t *testing.T) {
	next, err := models.ComputeStockTransition(stock(2, 0), models.MovementActionSortie, dec(5))
	if err != nil {
		t.Fatalf("ComputeStockTransition: %v", err)
	}
	if !next.Quantity.Equal(dec(0)) || !next.AssignedQuantity.Equal(dec(0)) {
		t.Fatalf("got %+v, want zeroes", next)
	}
}

func TestStockTransitionRejectsNonPositiveQuantity(t *testing.T) {
	if _, err := models.ComputeStockTransition(stock(10, 0), models.MovementActionAjout, dec(0)); err == nil {
		t.Fatal("zero quantity accepted")
	}
	if _, err := models.ComputeStockTransition(stock(10, 0), models.MovementActionAjout, dec(-1)); err == nil {
		t.Fatal("negative quantity accepted")
	}
}

func TestVehicleAssignClearsDepot(t *testing.T) {
	depot := 1
	next, err := models.ComputeVehicleAssign(models.VehicleState{DepotId: &depot}, 42)
	if err != nil {
		t.Fatalf("ComputeVehicleAssign: %v", err)
	}
	if next.DepotId != nil {
		t.Fatalf("depot still set: %d", *next.DepotId)
	}
	if next.HolderId == nil || *next.HolderId != 42 {
		t.Fatalf("holder = %v, want 42", next.HolderId)
	}
}

func TestVehicleAssignFailsWhenAlreadyAssigned(t *testing.T) {
	holder := 42
	_, err := models.ComputeVehicleAssign(models.VehicleState{HolderId: &holder}, 43)
	if !errors.Is(err, utils.ErrorVehicleAlreadyAssigned) {
		t.Fatalf("err = %v, want ErrorVehicleAlreadyAssigned", err)
	}
}

func TestVehicleReleaseClearsHolder(t *testing.T) {
	holder := 42
	depot := 7
	next, err := models.ComputeVehicleRelease(models.VehicleState{HolderId: &holder}, &depot)
	if err != nil {
		t.Fatalf("ComputeVehicleRelease: %v", err)
	}
	if next.HolderId != nil {
		t.Fatalf("holder still set: %d", *next.HolderId)
	}
	if next.DepotId == nil || *next.DepotId != 7 {
		t.Fatalf("depot = %v, want 7", next.DepotId)
	}
}

func TestVehicleReleaseFailsWhenNotAssigned(t *testing.T) {
	depot := 7
	_, err := models.ComputeVehicleRelease(models.VehicleState{DepotId: &depot}, &depot)
	if !errors.Is(err, utils.ErrorVehicleNotAssigned) {
		t.Fatalf("err = %v, want ErrorVehicleNotAssigned", err)
	}
}

func TestVehicleReleaseRequiresSomeDepot(t *testing.T) {
	holder := 42
	if _, err := models.ComputeVehicleRelease(models.VehicleState{HolderId: &holder}, nil); err == nil {
		t.Fatal("release without a depot accepted")
	}
}
