package models

// ResourceKind tags the closed set of trackable resource variants.
type ResourceKind string

const (
	ResourceKindMaterial   ResourceKind = "MATERIAL"
	ResourceKindConsumable ResourceKind = "CONSUMABLE"
	ResourceKindVehicle    ResourceKind = "VEHICLE"
)

func (k ResourceKind) IsValid() bool {
	switch k {
	case ResourceKindMaterial, ResourceKindConsumable, ResourceKindVehicle:
		return true
	}
	return false
}

// MovementAction is the verb of one ledger movement.
// ATTRIBUTION lends stock out, REPRISE takes it back,
// AJOUT grows physical stock, SORTIE/PERTE shrink it.
type MovementAction string

const (
	MovementActionAttribution MovementAction = "ATTRIBUTION"
	MovementActionReprise     MovementAction = "REPRISE"
	MovementActionAjout       MovementAction = "AJOUT"
	MovementActionSortie      MovementAction = "SORTIE"
	MovementActionPerte       MovementAction = "PERTE"
)

func (a MovementAction) IsValid() bool {
	switch a {
	case MovementActionAttribution, MovementActionReprise, MovementActionAjout,
		MovementActionSortie, MovementActionPerte:
		return true
	}
	return false
}
