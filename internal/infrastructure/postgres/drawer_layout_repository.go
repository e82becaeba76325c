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

var _ repository.DrawerLayoutRepository = (*DrawerLayoutRepo)(nil)

const layoutColumns = `id, drawer_id, layout_config::text, created_at, updated_at`

// DrawerLayoutRepo implementación de DrawerLayoutRepository sobre PostgreSQL.
type DrawerLayoutRepo struct {
	q Querier
}

// NewDrawerLayoutRepository construye el adaptador de layouts.
func NewDrawerLayoutRepository(q Querier) *DrawerLayoutRepo {
	return &DrawerLayoutRepo{q: q}
}

func scanLayout(row pgx.Row) (*entity.DrawerLayout, error) {
	var l entity.DrawerLayout
	if err := row.Scan(&l.ID, &l.DrawerID, &l.LayoutConfig, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un layout; drawer_id es único.
func (r *DrawerLayoutRepo) Create(ctx context.Context, l *entity.DrawerLayout) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO drawer_layouts (id, drawer_id, layout_config, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $5)`,
		l.ID, l.DrawerID, l.LayoutConfig, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el cajón %s ya tiene layout", domain.ErrDuplicate, l.DrawerID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cajón %s", domain.ErrNotFound, l.DrawerID)
		}
		return fmt.Errorf("insert drawer layout: %w", err)
	}
	return nil
}

func (r *DrawerLayoutRepo) getOne(ctx context.Context, query, arg string) (*entity.DrawerLayout, error) {
	l, err := scanLayout(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get drawer layout: %w", err)
	}
	return l, nil
}

// GetByID obtiene un layout por ID.
func (r *DrawerLayoutRepo) GetByID(ctx context.Context, id string) (*entity.DrawerLayout, error) {
	return r.getOne(ctx, `SELECT `+layoutColumns+` FROM drawer_layouts WHERE id = $1`, id)
}

// GetByDrawer obtiene el layout de un cajón.
func (r *DrawerLayoutRepo) GetByDrawer(ctx context.Context, drawerID string) (*entity.DrawerLayout, error) {
	return r.getOne(ctx, `SELECT `+layoutColumns+` FROM drawer_layouts WHERE drawer_id = $1`, drawerID)
}

// List lista layouts paginados.
func (r *DrawerLayoutRepo) List(ctx context.Context, limit, offset int) ([]*entity.DrawerLayout, error) {
	rows, err := r.q.Query(ctx, `SELECT `+layoutColumns+` FROM drawer_layouts ORDER BY seq LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list drawer layouts: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.DrawerLayout, 0)
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update persiste layout_config y updated_at.
func (r *DrawerLayoutRepo) Update(ctx context.Context, l *entity.DrawerLayout) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE drawer_layouts SET layout_config = $2::jsonb, updated_at = $3 WHERE id = $1`,
		l.ID, l.LayoutConfig, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update drawer layout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: layout %s", domain.ErrNotFound, l.ID)
	}
	return nil
}
