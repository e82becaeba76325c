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

var _ repository.DrawerRepository = (*DrawerRepo)(nil)

const drawerColumns = `id, drawer_code, qr_code, location, capacity, status, created_at, updated_at`

// DrawerRepo implementación de DrawerRepository sobre PostgreSQL (usable con pool o tx).
type DrawerRepo struct {
	q Querier
}

// NewDrawerRepository construye el adaptador de cajones. Pasar pool o tx (Querier).
func NewDrawerRepository(q Querier) *DrawerRepo {
	return &DrawerRepo{q: q}
}

func scanDrawer(row pgx.Row) (*entity.Drawer, error) {
	var d entity.Drawer
	if err := row.Scan(&d.ID, &d.DrawerCode, &d.QRCode, &d.Location, &d.Capacity, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDrawers(rows pgx.Rows) ([]*entity.Drawer, error) {
	defer rows.Close()
	out := make([]*entity.Drawer, 0)
	for rows.Next() {
		d, err := scanDrawer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create persiste un cajón nuevo.
func (r *DrawerRepo) Create(ctx context.Context, d *entity.Drawer) error {
	query := `
		INSERT INTO drawers (` + drawerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, d.ID, d.DrawerCode, d.QRCode, d.Location, d.Capacity, d.Status, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: drawer_code o qr_code ya registrado (%s)", domain.ErrDuplicate, d.DrawerCode)
		}
		return fmt.Errorf("insert drawer: %w", err)
	}
	return nil
}

func (r *DrawerRepo) getOne(ctx context.Context, op, query, id string) (*entity.Drawer, error) {
	d, err := scanDrawer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

// GetByID obtiene un cajón por ID.
func (r *DrawerRepo) GetByID(ctx context.Context, id string) (*entity.Drawer, error) {
	return r.getOne(ctx, "get drawer", `SELECT `+drawerColumns+` FROM drawers WHERE id = $1`, id)
}

// GetForUpdate obtiene el cajón y bloquea la fila hasta el fin de la transacción.
func (r *DrawerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Drawer, error) {
	return r.getOne(ctx, "get drawer for update", `SELECT `+drawerColumns+` FROM drawers WHERE id = $1 FOR UPDATE`, id)
}

// FindExact busca coincidencias exactas en qr_code, drawer_code o id.
func (r *DrawerRepo) FindExact(ctx context.Context, token string) ([]*entity.Drawer, error) {
	query := `
		SELECT ` + drawerColumns + ` FROM drawers
		WHERE qr_code = $1 OR drawer_code = $1 OR id = $1
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("find drawer: %w", err)
	}
	return collectDrawers(rows)
}

// ListAll lista todos los cajones en orden de registro.
func (r *DrawerRepo) ListAll(ctx context.Context) ([]*entity.Drawer, error) {
	return r.List(ctx, 0, 0)
}

// List lista cajones paginados; limit <= 0 = sin límite.
func (r *DrawerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Drawer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+drawerColumns+` FROM drawers ORDER BY seq LIMIT $1 OFFSET $2`, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list drawers: %w", err)
	}
	return collectDrawers(rows)
}

// Update persiste location, capacity, status y updated_at.
func (r *DrawerRepo) Update(ctx context.Context, d *entity.Drawer) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE drawers SET location = $2, capacity = $3, status = $4, updated_at = $5 WHERE id = $1`,
		d.ID, d.Location, d.Capacity, d.Status, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update drawer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cajón %s", domain.ErrNotFound, d.ID)
	}
	return nil
}
