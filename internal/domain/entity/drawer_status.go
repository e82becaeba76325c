package entity

import "time"

// Estados de llenado de un registro DrawerStatus.
const (
	FillStatusEmpty        = "empty"
	FillStatusPartial      = "partial"
	FillStatusFull         = "full"
	FillStatusNeedsRestock = "needs_restock"
)

// DrawerStatus vincula un lote cargado en un cajón (registro de trazabilidad).
// Referencia Drawer y Batch solo por ID. Nunca se elimina; al consumirse se marca IsDepleted.
type DrawerStatus struct {
	ID             string
	DrawerID       string
	BatchID        string
	QuantityLoaded int
	Status         string
	IsDepleted     bool
	EmployeeID     string // opcional
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DepletedAt     *time.Time
}

// FillStatusFor deriva el estado de llenado de una carga frente a la capacidad del cajón.
// Capacidad <= 0 significa que el cajón no declara un llenado esperado.
func FillStatusFor(quantity, capacity int) string {
	if capacity <= 0 || quantity >= capacity {
		return FillStatusFull
	}
	return FillStatusPartial
}

// UtilizationFillStatus clasifica el total cargado de un cajón incluyendo el umbral de reposición.
func UtilizationFillStatus(total, capacity, restockThresholdPct int) string {
	switch {
	case total <= 0:
		return FillStatusEmpty
	case capacity <= 0 || total >= capacity:
		return FillStatusFull
	case total*100 <= capacity*restockThresholdPct:
		return FillStatusNeedsRestock
	default:
		return FillStatusPartial
	}
}
