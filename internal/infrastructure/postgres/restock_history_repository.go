package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

var _ repository.RestockHistoryRepository = (*RestockHistoryRepo)(nil)

const historyColumns = `id, employee_id, employee_name, action_type, drawer_id, batch_id, quantity_changed,
	accuracy_score, efficiency_score, notes, completion_time`

// RestockHistoryRepo implementación del ledger append-only sobre PostgreSQL.
type RestockHistoryRepo struct {
	q Querier
}

// NewRestockHistoryRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewRestockHistoryRepository(q Querier) *RestockHistoryRepo {
	return &RestockHistoryRepo{q: q}
}

// Create agrega una entrada.
func (r *RestockHistoryRepo) Create(ctx context.Context, rec *entity.RestockHistoryRecord) error {
	query := `
		INSERT INTO restock_history (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.EmployeeID, rec.EmployeeName, rec.ActionType, rec.DrawerID, rec.BatchID, rec.QuantityChanged,
		rec.AccuracyScore, rec.EfficiencyScore, rec.Notes, rec.CompletionTime,
	)
	if err != nil {
		return fmt.Errorf("insert restock history: %w", err)
	}
	return nil
}

func (r *RestockHistoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.RestockHistoryRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list restock history: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.RestockHistoryRecord, 0)
	for rows.Next() {
		var rec entity.RestockHistoryRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.ActionType, &rec.DrawerID, &rec.BatchID,
			&rec.QuantityChanged, &rec.AccuracyScore, &rec.EfficiencyScore, &rec.Notes, &rec.CompletionTime); err != nil {
			return nil, fmt.Errorf("scan restock history: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// List devuelve el ledger, más recientes primero.
func (r *RestockHistoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.RestockHistoryRecord, error) {
	return r.list(ctx, `SELECT `+historyColumns+` FROM restock_history ORDER BY seq DESC LIMIT $1 OFFSET $2`,
		limitArg(limit), offset)
}

// ListByEmployee devuelve las entradas de un empleado, más recientes primero.
func (r *RestockHistoryRepo) ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]*entity.RestockHistoryRecord, error) {
	return r.list(ctx, `SELECT `+historyColumns+` FROM restock_history WHERE employee_id = $1 ORDER BY seq DESC LIMIT $2 OFFSET $3`,
		employeeID, limitArg(limit), offset)
}

// ListWarnings devuelve las entradas marcadas con apilamiento, más recientes primero.
func (r *RestockHistoryRepo) ListWarnings(ctx context.Context, limit, offset int) ([]*entity.RestockHistoryRecord, error) {
	return r.list(ctx, `SELECT `+historyColumns+` FROM restock_history WHERE notes LIKE $1 ORDER BY seq DESC LIMIT $2 OFFSET $3`,
		entity.WarningTag+"%", limitArg(limit), offset)
}

// ListAll devuelve todo el ledger (opcionalmente de un empleado), más recientes primero.
func (r *RestockHistoryRepo) ListAll(ctx context.Context, employeeID string) ([]*entity.RestockHistoryRecord, error) {
	return r.list(ctx, `SELECT `+historyColumns+` FROM restock_history WHERE ($1 = '' OR employee_id = $1) ORDER BY seq DESC`,
		employeeID)
}

// AggregateByEmployee calcula promedios y totales por empleado al consultar (AVG -> NUMERIC -> decimal).
func (r *RestockHistoryRepo) AggregateByEmployee(ctx context.Context, employeeID string) ([]repository.EmployeeAggregate, error) {
	query := `
		SELECT h.employee_id,
		       COALESCE((
		           SELECT n.employee_name FROM restock_history n
		           WHERE n.employee_id = h.employee_id AND n.employee_name <> ''
		           ORDER BY n.seq DESC LIMIT 1
		       ), '') AS employee_name,
		       COUNT(*)::int,
		       AVG(h.accuracy_score)::numeric,
		       AVG(h.efficiency_score)::numeric
		FROM restock_history h
		WHERE ($1 = '' OR h.employee_id = $1)
		GROUP BY h.employee_id
		ORDER BY h.employee_id`
	rows, err := r.q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("aggregate restock history: %w", err)
	}
	defer rows.Close()
	out := make([]repository.EmployeeAggregate, 0)
	for rows.Next() {
		var a repository.EmployeeAggregate
		if err := rows.Scan(&a.EmployeeID, &a.EmployeeName, &a.TotalActions, &a.AvgAccuracy, &a.AvgEfficiency); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
