package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resource is one trackable inventory item. Every variant carries an id and
// a depot relationship; quantities and assignment fields are mutated only
// through the movement workflow.
type Resource interface {
	GetId() int
	GetResourceKind() ResourceKind
}

// StockState is the quantity pair every stock resource maintains.
// Invariant: 0 <= AssignedQuantity <= Quantity.
type StockState struct {
	Quantity         decimal.Decimal `json:"quantity"`
	AssignedQuantity decimal.Decimal `json:"assigned_quantity"`
}

func (s StockState) Available() decimal.Decimal {
	return s.Quantity.Sub(s.AssignedQuantity)
}

// StockResource is implemented by Material and Consumable.
type StockResource interface {
	Resource
	GetStockState() StockState
	ApplyStockState(StockState)
}

// VehicleState is the location pair of a vehicle.
// Invariant: exactly one of DepotId, HolderId is set.
type VehicleState struct {
	DepotId  *int `json:"depot_id"`
	HolderId *int `json:"holder_id"`
}

type Material struct {
	ID               int             `gorm:"primary_key" json:"id"`
	Name             string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Category         string          `gorm:"size:100" json:"category"`
	Serial           string          `gorm:"size:100;index" json:"serial"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	AssignedQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"assigned_quantity"`
	DepotId          *int            `gorm:"index" json:"depot_id"`
	LockVersion      int             `gorm:"not null;default:0" json:"lock_version"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m Material) GetId() int { return m.ID }

func (m Material) GetResourceKind() ResourceKind { return ResourceKindMaterial }

func (m *Material) GetStockState() StockState {
	return StockState{Quantity: m.Quantity, AssignedQuantity: m.AssignedQuantity}
}

func (m *Material) ApplyStockState(s StockState) {
	m.Quantity = s.Quantity
	m.AssignedQuantity = s.AssignedQuantity
}

type Consumable struct {
	ID               int             `gorm:"primary_key" json:"id"`
	Name             string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Unit             string          `gorm:"size:20;default:pcs" json:"unit"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	AssignedQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"assigned_quantity"`
	DepotId          *int            `gorm:"index" json:"depot_id"`
	LockVersion      int             `gorm:"not null;default:0" json:"lock_version"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c Consumable) GetId() int { return c.ID }

func (c Consumable) GetResourceKind() ResourceKind { return ResourceKindConsumable }

func (c *Consumable) GetStockState() StockState {
	return StockState{Quantity: c.Quantity, AssignedQuantity: c.AssignedQuantity}
}

func (c *Consumable) ApplyStockState(s StockState) {
	c.Quantity = s.Quantity
	c.AssignedQuantity = s.AssignedQuantity
}

type Vehicle struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Plate       string          `gorm:"size:20;not null;unique" json:"plate" binding:"required"`
	Model       string          `gorm:"size:100" json:"model"`
	Km          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"km"`
	DepotId     *int            `gorm:"index" json:"depot_id"`
	HolderId    *int            `gorm:"index" json:"holder_id"`
	Notes       string          `gorm:"type:text" json:"notes"`
	LockVersion int             `gorm:"not null;default:0" json:"lock_version"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v Vehicle) GetId() int { return v.ID }

func (v Vehicle) GetResourceKind() ResourceKind { return ResourceKindVehicle }

func (v *Vehicle) GetVehicleState() VehicleState {
	return VehicleState{DepotId: v.DepotId, HolderId: v.HolderId}
}

func (v *Vehicle) ApplyVehicleState(s VehicleState) {
	v.DepotId = s.DepotId
	v.HolderId = s.HolderId
}
