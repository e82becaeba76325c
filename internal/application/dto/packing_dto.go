package dto

import "time"

// PackingItemRequest renglón del checklist de un cajón.
type PackingItemRequest struct {
	BatchID  string `json:"batch_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// PackingDrawerRequest cajón requerido por un trabajo.
type PackingDrawerRequest struct {
	DrawerID string               `json:"drawer_id" validate:"required"`
	Items    []PackingItemRequest `json:"items" validate:"dive"`
}

// CreatePackingJobRequest body para POST /api/packing-jobs.
type CreatePackingJobRequest struct {
	Flight          string                 `json:"flight" validate:"max=50"`
	StandardSeconds int                    `json:"standard_seconds" validate:"min=0"`
	Drawers         []PackingDrawerRequest `json:"drawers" validate:"required,min=1,dive"`
}

// ScanDrawerRequest body para validar el QR del cajón seleccionado.
type ScanDrawerRequest struct {
	QRCode string `json:"qr_code" validate:"required"`
}

// PackingAssignRequest body para confirmar un item del checklist (asignación vía el flujo).
type PackingAssignRequest struct {
	BatchID      string `json:"batch_id" validate:"required"`
	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
}

// CompleteDrawerRequest body para cerrar un cajón del trabajo.
type CompleteDrawerRequest struct {
	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
}

// PackingItemResponse renglón del checklist.
type PackingItemResponse struct {
	BatchID        string `json:"batch_id"`
	Quantity       int    `json:"quantity"`
	Confirmed      bool   `json:"confirmed"`
	Warning        string `json:"warning,omitempty"`
	DrawerStatusID string `json:"drawer_status_id,omitempty"`
}

// PackingDrawerResponse estado de un cajón en el trabajo.
type PackingDrawerResponse struct {
	DrawerID    string                `json:"drawer_id"`
	State       string                `json:"state"`
	Items       []PackingItemResponse `json:"items"`
	ScannedAt   *time.Time            `json:"scanned_at,omitempty"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

// PackingJobResponse estado completo de un trabajo de empaque guiado.
type PackingJobResponse struct {
	JobID            string                  `json:"job_id"`
	Flight           string                  `json:"flight,omitempty"`
	StandardSeconds  int                     `json:"standard_seconds"`
	Locked           bool                    `json:"locked"`
	CompletedDrawers int                     `json:"completed_drawers"`
	TotalDrawers     int                     `json:"total_drawers"`
	Drawers          []PackingDrawerResponse `json:"drawers"`
	CreatedAt        time.Time               `json:"created_at"`
	LockedAt         *time.Time              `json:"locked_at,omitempty"`
}

// PackingAssignResponse resultado de confirmar un item: el registro creado y el estado del trabajo.
type PackingAssignResponse struct {
	DrawerStatus DrawerStatusResponse `json:"drawer_status"`
	Job          PackingJobResponse   `json:"job"`
}
