package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

var _ repository.DrawerStatusRepository = (*DrawerStatusRepo)(nil)

const statusColumns = `id, drawer_id, batch_id, quantity_loaded, status, is_depleted, employee_id, created_at, updated_at, depleted_at`

// DrawerStatusRepo implementación de DrawerStatusRepository sobre PostgreSQL (usable con pool o tx).
type DrawerStatusRepo struct {
	q Querier
}

// NewDrawerStatusRepository construye el adaptador de trazabilidad. Pasar pool o tx (Querier).
func NewDrawerStatusRepository(q Querier) *DrawerStatusRepo {
	return &DrawerStatusRepo{q: q}
}

func scanStatus(row pgx.Row) (*entity.DrawerStatus, error) {
	var ds entity.DrawerStatus
	err := row.Scan(&ds.ID, &ds.DrawerID, &ds.BatchID, &ds.QuantityLoaded, &ds.Status, &ds.IsDepleted,
		&ds.EmployeeID, &ds.CreatedAt, &ds.UpdatedAt, &ds.DepletedAt)
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *DrawerStatusRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.DrawerStatus, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	out := make([]*entity.DrawerStatus, 0)
	for rows.Next() {
		ds, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// Create persiste un registro de trazabilidad.
func (r *DrawerStatusRepo) Create(ctx context.Context, ds *entity.DrawerStatus) error {
	query := `
		INSERT INTO drawer_status (` + statusColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		ds.ID, ds.DrawerID, ds.BatchID, ds.QuantityLoaded, ds.Status, ds.IsDepleted,
		ds.EmployeeID, ds.CreatedAt, ds.UpdatedAt, ds.DepletedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cajón o lote inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert drawer status: %w", err)
	}
	return nil
}

// Update persiste los campos mutables del registro.
func (r *DrawerStatusRepo) Update(ctx context.Context, ds *entity.DrawerStatus) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE drawer_status
		SET quantity_loaded = $2, status = $3, is_depleted = $4, employee_id = $5, updated_at = $6, depleted_at = $7
		WHERE id = $1`,
		ds.ID, ds.QuantityLoaded, ds.Status, ds.IsDepleted, ds.EmployeeID, ds.UpdatedAt, ds.DepletedAt,
	)
	if err != nil {
		return fmt.Errorf("update drawer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: drawer status %s", domain.ErrNotFound, ds.ID)
	}
	return nil
}

// GetByID obtiene un registro por ID.
func (r *DrawerStatusRepo) GetByID(ctx context.Context, id string) (*entity.DrawerStatus, error) {
	ds, err := scanStatus(r.q.QueryRow(ctx, `SELECT `+statusColumns+` FROM drawer_status WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get drawer status: %w", err)
	}
	return ds, nil
}

// LatestByDrawer devuelve el registro más reciente del cajón.
func (r *DrawerStatusRepo) LatestByDrawer(ctx context.Context, drawerID string) (*entity.DrawerStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM drawer_status WHERE drawer_id = $1 ORDER BY seq DESC LIMIT 1`
	ds, err := scanStatus(r.q.QueryRow(ctx, query, drawerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest drawer status: %w", err)
	}
	return ds, nil
}

// ListByDrawer devuelve todos los registros del cajón en orden de creación.
func (r *DrawerStatusRepo) ListByDrawer(ctx context.Context, drawerID string) ([]*entity.DrawerStatus, error) {
	return r.list(ctx, "list drawer status",
		`SELECT `+statusColumns+` FROM drawer_status WHERE drawer_id = $1 ORDER BY seq`, drawerID)
}

// ListActiveByDrawer devuelve los registros no agotados del cajón en orden de creación.
func (r *DrawerStatusRepo) ListActiveByDrawer(ctx context.Context, drawerID string) ([]*entity.DrawerStatus, error) {
	return r.list(ctx, "list active drawer status",
		`SELECT `+statusColumns+` FROM drawer_status WHERE drawer_id = $1 AND NOT is_depleted ORDER BY seq`, drawerID)
}

// SumActiveByBatch suma la carga no agotada del lote en todos los cajones, excluyendo excludeID.
func (r *DrawerStatusRepo) SumActiveByBatch(ctx context.Context, batchID, excludeID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_loaded), 0)::int
		FROM drawer_status
		WHERE batch_id = $1 AND NOT is_depleted AND id <> $2`,
		batchID, excludeID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum active by batch: %w", err)
	}
	return total, nil
}

// List lista registros paginados en orden de creación.
func (r *DrawerStatusRepo) List(ctx context.Context, limit, offset int) ([]*entity.DrawerStatus, error) {
	return r.list(ctx, "list drawer status",
		`SELECT `+statusColumns+` FROM drawer_status ORDER BY seq LIMIT $1 OFFSET $2`, limitArg(limit), offset)
}
