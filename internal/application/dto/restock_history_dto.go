package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRestockHistoryRequest body para POST /api/restock-history.
// ItemID es el nombre histórico de BatchID que aún envía el cliente.
type CreateRestockHistoryRequest struct {
	EmployeeID      string     `json:"employee_id" validate:"required"`
	EmployeeName    string     `json:"employee_name,omitempty"`
	ActionType      string     `json:"action_type" validate:"required,oneof=registration packing restock removal"`
	DrawerID        *string    `json:"drawer_id,omitempty"`
	BatchID         *string    `json:"batch_id,omitempty"`
	ItemID          *string    `json:"item_id,omitempty"`
	QuantityChanged *int       `json:"quantity_changed,omitempty"`
	Quantity        *int       `json:"quantity,omitempty"`
	AccuracyScore   *int       `json:"accuracy_score,omitempty" validate:"omitempty,min=0,max=100"`
	EfficiencyScore *int       `json:"efficiency_score,omitempty" validate:"omitempty,min=0,max=100"`
	Notes           string     `json:"notes,omitempty"`
	CompletionTime  *time.Time `json:"completion_time,omitempty"`
}

// RestockHistoryResponse salida de una entrada del ledger.
type RestockHistoryResponse struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name,omitempty"`
	ActionType      string    `json:"action_type"`
	DrawerID        *string   `json:"drawer_id,omitempty"`
	BatchID         *string   `json:"batch_id,omitempty"`
	QuantityChanged *int      `json:"quantity_changed,omitempty"`
	AccuracyScore   int       `json:"accuracy_score"`
	EfficiencyScore int       `json:"efficiency_score"`
	Notes           string    `json:"notes,omitempty"`
	CompletionTime  time.Time `json:"completion_time"`
}

// EmployeePerformanceResponse agregado de desempeño de un empleado.
type EmployeePerformanceResponse struct {
	EmployeeID         string          `json:"employee_id"`
	AvgAccuracyScore   decimal.Decimal `json:"avg_accuracy_score"`
	AvgEfficiencyScore decimal.Decimal `json:"avg_efficiency_score"`
	TotalActions       int             `json:"total_actions"`
}

// LeaderboardEntry posición de un empleado en el ranking.
type LeaderboardEntry struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Rank         int             `json:"rank"`
	MetricValue  decimal.Decimal `json:"metric_value"`
	TotalActions int             `json:"total_actions"`
}

// LeaderboardResponse ranking de empleados.
type LeaderboardResponse struct {
	Metric  string             `json:"metric"`
	Entries []LeaderboardEntry `json:"entries"`
}
