package models

import (
	"errors"

	"github.com/parcops/parc_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResourceStore loads and persists one resource kind inside the caller's
// transaction. LoadForUpdate takes a row lock where the backend supports it;
// Save additionally checks the lock_version column so a save computed from a
// stale pre-image touches zero rows and surfaces ErrorMovementConflict
// instead of silently losing an update.
type ResourceStore interface {
	LoadForUpdate(tx *gorm.DB, id int) (Resource, error)
	Save(tx *gorm.DB, resource Resource) error
}

// MovementRules validates one movement against the kind's invariants and
// writes the computed new state onto the loaded resource. The computation
// itself lives in the pure transition functions.
type MovementRules interface {
	Apply(resource Resource, action MovementAction, qty decimal.Decimal, fromDepotId *int, toUserId *int) error
}

// KindBinding pairs the store and rule set of one resource kind.
type KindBinding struct {
	Kind  ResourceKind
	Store ResourceStore
	Rules MovementRules
}

// ResolveResourceKind routes a declared kind to its store and rule set.
func ResolveResourceKind(kind ResourceKind) (KindBinding, error) {
	switch kind {
	case ResourceKindMaterial:
		return KindBinding{Kind: kind, Store: materialStore{}, Rules: stockRules{}}, nil
	case ResourceKindConsumable:
		return KindBinding{Kind: kind, Store: consumableStore{}, Rules: stockRules{}}, nil
	case ResourceKindVehicle:
		return KindBinding{Kind: kind, Store: vehicleStore{}, Rules: vehicleRules{}}, nil
	default:
		return KindBinding{}, utils.ErrorUnknownResourceKind
	}
}

// fetch one row inside tx, locking it on backends that support FOR UPDATE
func loadRowForUpdate[T any](tx *gorm.DB, id int) (*T, error) {
	dbCtx := tx
	if tx.Dialector.Name() == "mysql" {
		dbCtx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row T
	if err := dbCtx.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &row, nil
}

// guarded update: WHERE id AND lock_version, bumping the version.
// Zero affected rows means a concurrent movement won the race.
func saveGuarded(tx *gorm.DB, model interface{}, id int, lockVersion int, updates map[string]interface{}) error {
	updates["lock_version"] = lockVersion + 1
	res := tx.Model(model).
		Where("id = ? AND lock_version = ?", id, lockVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrorMovementConflict
	}
	return nil
}

type materialStore struct{}

func (materialStore) LoadForUpdate(tx *gorm.DB, id int) (Resource, error) {
	return loadRowForUpdate[Material](tx, id)
}

func (materialStore) Save(tx *gorm.DB, resource Resource) error {
	m, ok := resource.(*Material)
	if !ok {
		return errors.New("material store given a non-material resource")
	}
	if err := saveGuarded(tx, &Material{}, m.ID, m.LockVersion, map[string]interface{}{
		"quantity":          m.Quantity,
		"assigned_quantity": m.AssignedQuantity,
		"depot_id":          m.DepotId,
	}); err != nil {
		return err
	}
	m.LockVersion++
	return nil
}

type consumableStore struct{}

func (consumableStore) LoadForUpdate(tx *gorm.DB, id int) (Resource, error) {
	return loadRowForUpdate[Consumable](tx, id)
}

func (consumableStore) Save(tx *gorm.DB, resource Resource) error {
	c, ok := resource.(*Consumable)
	if !ok {
		return errors.New("consumable store given a non-consumable resource")
	}
	if err := saveGuarded(tx, &Consumable{}, c.ID, c.LockVersion, map[string]interface{}{
		"quantity":          c.Quantity,
		"assigned_quantity": c.AssignedQuantity,
		"depot_id":          c.DepotId,
	}); err != nil {
		return err
	}
	c.LockVersion++
	return nil
}

type vehicleStore struct{}

func (vehicleStore) LoadForUpdate(tx *gorm.DB, id int) (Resource, error) {
	return loadRowForUpdate[Vehicle](tx, id)
}

func (vehicleStore) Save(tx *gorm.DB, resource Resource) error {
	v, ok := resource.(*Vehicle)
	if !ok {
		return errors.New("vehicle store given a non-vehicle resource")
	}
	if err := saveGuarded(tx, &Vehicle{}, v.ID, v.LockVersion, map[string]interface{}{
		"depot_id":  v.DepotId,
		"holder_id": v.HolderId,
	}); err != nil {
		return err
	}
	v.LockVersion++
	return nil
}

type stockRules struct{}

func (stockRules) Apply(resource Resource, action MovementAction, qty decimal.Decimal, fromDepotId *int, toUserId *int) error {
	stock, ok := resource.(StockResource)
	if !ok {
		return errors.New("stock rules given a non-stock resource")
	}
	next, err := ComputeStockTransition(stock.GetStockState(), action, qty)
	if err != nil {
		return err
	}
	stock.ApplyStockState(next)
	return nil
}

type vehicleRules struct{}

func (vehicleRules) Apply(resource Resource, action MovementAction, qty decimal.Decimal, fromDepotId *int, toUserId *int) error {
	vehicle, ok := resource.(*Vehicle)
	if !ok {
		return errors.New("vehicle rules given a non-vehicle resource")
	}

	var next VehicleState
	var err error
	switch action {
	case MovementActionAttribution:
		if toUserId == nil {
			return errors.New("to_user_id is required to assign a vehicle")
		}
		next, err = ComputeVehicleAssign(vehicle.GetVehicleState(), *toUserId)
	case MovementActionReprise:
		next, err = ComputeVehicleRelease(vehicle.GetVehicleState(), fromDepotId)
	default:
		return errors.New("invalid vehicle action: " + string(action))
	}
	if err != nil {
		return err
	}
	vehicle.ApplyVehicleState(next)
	return nil
}
