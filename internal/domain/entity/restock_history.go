package entity

import "time"

// Tipos de acción del historial de reposición.
const (
	ActionRegistration = "registration"
	ActionPacking      = "packing"
	ActionRestock      = "restock" // alias histórico de packing
	ActionRemoval      = "removal"
)

// WarningTag marca en Notes los registros correlacionados con un conflicto de apilamiento.
const WarningTag = "STACKING_DETECTED"

// SystemEmployeeID se usa cuando una asignación llega sin operador identificado.
const SystemEmployeeID = "system"

// RestockHistoryRecord entrada inmutable del ledger de acciones de operadores.
type RestockHistoryRecord struct {
	ID              string
	EmployeeID      string
	EmployeeName    string
	ActionType      string
	DrawerID        *string
	BatchID         *string
	QuantityChanged *int
	AccuracyScore   int // 0-100
	EfficiencyScore int // 0-100
	Notes           string
	CompletionTime  time.Time
}

// NormalizeActionType devuelve el tipo canónico o "" si no es válido.
func NormalizeActionType(action string) string {
	switch action {
	case ActionRegistration, ActionPacking, ActionRemoval:
		return action
	case ActionRestock:
		return ActionPacking
	default:
		return ""
	}
}
