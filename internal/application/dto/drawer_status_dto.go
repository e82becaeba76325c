package dto

import "time"

// CreateDrawerStatusRequest body para POST /api/drawer-status (asignación de un lote a un cajón).
type CreateDrawerStatusRequest struct {
	DrawerID        string `json:"drawer_id" validate:"required"`
	BatchID         string `json:"batch_id" validate:"required"`
	QuantityLoaded  int    `json:"quantity_loaded" validate:"required,gt=0"`
	EmployeeID      string `json:"employee_id,omitempty"`
	EmployeeName    string `json:"employee_name,omitempty"`
	AccuracyScore   *int   `json:"accuracy_score,omitempty" validate:"omitempty,min=0,max=100"`
	EfficiencyScore *int   `json:"efficiency_score,omitempty" validate:"omitempty,min=0,max=100"`
}

// DepleteBatchRequest body para POST /api/drawer-status/:id/deplete-batch.
type DepleteBatchRequest struct {
	BatchID string `json:"batch_id" validate:"required"`
}

// ConflictingBatchDTO lote no agotado que ya ocupaba el cajón.
type ConflictingBatchDTO struct {
	DrawerStatusID string    `json:"drawer_status_id"`
	BatchID        string    `json:"batch_id"`
	BatchNumber    string    `json:"batch_number"`
	QuantityLoaded int       `json:"quantity_loaded"`
	ExpiryDate     time.Time `json:"expiry_date"`
}

// StackingWarningDTO advertencia de apilamiento (respuesta HTTP 207).
type StackingWarningDTO struct {
	Type               string                `json:"type"`
	Message            string                `json:"message"`
	ConflictingBatches []ConflictingBatchDTO `json:"conflicting_batches"`
}

// DrawerStatusResponse salida de un registro de trazabilidad.
// Warning solo se informa en la respuesta de una asignación con apilamiento.
type DrawerStatusResponse struct {
	ID             string              `json:"id"`
	DrawerID       string              `json:"drawer_id"`
	BatchID        string              `json:"batch_id"`
	QuantityLoaded int                 `json:"quantity_loaded"`
	Status         string              `json:"status"`
	IsDepleted     bool                `json:"is_depleted"`
	EmployeeID     string              `json:"employee_id,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	DepletedAt     *time.Time          `json:"depleted_at,omitempty"`
	Warning        *StackingWarningDTO `json:"warning,omitempty"`
}

// DepleteBatchResponse resultado de agotar un lote en un cajón.
type DepleteBatchResponse struct {
	Record          DrawerStatusResponse `json:"record"`
	AlreadyDepleted bool                 `json:"already_depleted"`
	BatchRemaining  int                  `json:"batch_remaining"`
	BatchStatus     string               `json:"batch_status"`
}

// DrawerUtilizationResponse ocupación de un cajón.
type DrawerUtilizationResponse struct {
	DrawerID         string `json:"drawer_id"`
	Capacity         int    `json:"capacity"`
	TotalQuantity    int    `json:"total_quantity"`
	ActiveBatchCount int    `json:"active_batches"`
	HasStacking      bool   `json:"has_stacking"`
	FillStatus       string `json:"fill_status"`
}
