package models

import (
	"errors"

	"github.com/parcops/parc_backend/utils"
	"github.com/shopspring/decimal"
)

// Pure transition functions. Each takes the loaded current state and returns
// either a fully-computed new state or a typed failure; they never touch the
// database and never partially mutate their input.

// ComputeStockTransition applies one movement action to a stock state.
//
// SORTIE/PERTE clamp AssignedQuantity down to the new Quantity so the
// assigned<=quantity invariant holds even when stock leaves while lent out.
// The clamp does not record which assignments were implicitly revoked; the
// history snapshot pair is the only audit trail of it.
func ComputeStockTransition(current StockState, action MovementAction, qty decimal.Decimal) (StockState, error) {
	if qty.IsNegative() || qty.IsZero() {
		return StockState{}, errors.New("quantity must be positive")
	}

	next := current
	switch action {
	case MovementActionAttribution:
		if current.Available().LessThan(qty) {
			return StockState{}, utils.ErrorInsufficientStock
		}
		next.AssignedQuantity = current.AssignedQuantity.Add(qty)
	case MovementActionReprise:
		next.AssignedQuantity = decimal.Max(decimal.Zero, current.AssignedQuantity.Sub(qty))
	case MovementActionAjout:
		next.Quantity = current.Quantity.Add(qty)
	case MovementActionSortie, MovementActionPerte:
		next.Quantity = decimal.Max(decimal.Zero, current.Quantity.Sub(qty))
		next.AssignedQuantity = decimal.Min(current.AssignedQuantity, next.Quantity)
	default:
		return StockState{}, errors.New("invalid stock action: " + string(action))
	}

	if next.AssignedQuantity.IsNegative() || next.AssignedQuantity.GreaterThan(next.Quantity) {
		// unreachable unless the stored state was already corrupt
		return StockState{}, errors.New("stock invariant violated")
	}
	return next, nil
}

// ComputeVehicleAssign hands the vehicle to a holder, clearing its depot.
func ComputeVehicleAssign(current VehicleState, holderId int) (VehicleState, error) {
	if current.HolderId != nil {
		return VehicleState{}, utils.ErrorVehicleAlreadyAssigned
	}
	if holderId <= 0 {
		return VehicleState{}, errors.New("holder is required")
	}
	return VehicleState{HolderId: &holderId}, nil
}

// ComputeVehicleRelease returns the vehicle to a depot, clearing its holder.
// A nil depot falls back to the depot still recorded on the vehicle, if any.
func ComputeVehicleRelease(current VehicleState, depotId *int) (VehicleState, error) {
	if current.HolderId == nil {
		return VehicleState{}, utils.ErrorVehicleNotAssigned
	}
	target := depotId
	if target == nil {
		target = current.DepotId
	}
	if target == nil {
		return VehicleState{}, errors.New("depot is required to release a vehicle")
	}
	d := *target
	return VehicleState{DepotId: &d}, nil
}
