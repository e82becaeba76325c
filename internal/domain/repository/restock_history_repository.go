package repository

import (
	"context"

	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// EmployeeAggregate resultado crudo de la agregación del ledger por empleado.
// Lo produce la DB (o el adaptador en memoria); el caso de uso redondea y rankea.
type EmployeeAggregate struct {
	EmployeeID    string
	EmployeeName  string // nombre más reciente no vacío
	TotalActions  int
	AvgAccuracy   decimal.Decimal
	AvgEfficiency decimal.Decimal
}

// RestockHistoryRepository define el puerto del ledger append-only.
// Las agregaciones se calculan al consultar; no hay contadores mantenidos aparte.
type RestockHistoryRepository interface {
	Create(ctx context.Context, record *entity.RestockHistoryRecord) error
	// Las listas se devuelven de la más reciente a la más antigua.
	List(ctx context.Context, limit, offset int) ([]*entity.RestockHistoryRecord, error)
	ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]*entity.RestockHistoryRecord, error)
	// ListWarnings devuelve los registros cuyo Notes empieza con entity.WarningTag.
	ListWarnings(ctx context.Context, limit, offset int) ([]*entity.RestockHistoryRecord, error)
	// ListAll devuelve todo el ledger (filtrado por empleado si employeeID no es vacío), para exportación.
	ListAll(ctx context.Context, employeeID string) ([]*entity.RestockHistoryRecord, error)
	// AggregateByEmployee devuelve una fila por empleado; employeeID vacío = todos.
	AggregateByEmployee(ctx context.Context, employeeID string) ([]EmployeeAggregate, error)
}
