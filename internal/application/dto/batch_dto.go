package dto

import "time"

// CreateBatchRequest body para POST /api/batches (registro de lote).
// ExpiryDate acepta RFC3339 o fecha simple (2006-01-02).
type CreateBatchRequest struct {
	ItemType     string `json:"item_type" validate:"required,max=100"`
	BatchNumber  string `json:"batch_number" validate:"required,max=100"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	ExpiryDate   string `json:"expiry_date" validate:"required"`
	QRCode       string `json:"qr_code" validate:"required,max=200"`
	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID          string    `json:"id"`
	ItemType    string    `json:"item_type"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int       `json:"quantity"`
	ExpiryDate  time.Time `json:"expiry_date"`
	QRCode      string    `json:"qr_code"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ScanBatchRequest body para validar un lote escaneado (empaque o retorno).
type ScanBatchRequest struct {
	QRCode       string `json:"qr_code" validate:"required"`
	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
}

// ScanValidationResponse resultado de validar un lote contra la regla FEFO.
// RequiredBatch se informa cuando hay un lote que vence antes y debe usarse primero.
type ScanValidationResponse struct {
	Code          string         `json:"code"`
	Message       string         `json:"message"`
	Batch         *BatchResponse `json:"batch,omitempty"`
	RequiredBatch *BatchResponse `json:"required_batch,omitempty"`
}

// ReturnValidationResponse resultado de procesar un lote devuelto de un vuelo.
type ReturnValidationResponse struct {
	Code    string         `json:"code"`
	Action  string         `json:"action"`
	Message string         `json:"message"`
	Batch   *BatchResponse `json:"batch"`
}
