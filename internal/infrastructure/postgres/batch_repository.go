package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, item_type, batch_number, quantity, expiry_date, qr_code, status, created_at, updated_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.ID, &b.ItemType, &b.BatchNumber, &b.Quantity, &b.ExpiryDate, &b.QRCode, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBatches(rows pgx.Rows) ([]*entity.Batch, error) {
	defer rows.Close()
	out := make([]*entity.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ItemType, b.BatchNumber, b.Quantity, b.ExpiryDate, b.QRCode, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: qr_code %s ya registrado", domain.ErrDuplicate, b.QRCode)
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *BatchRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, "get batch", `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
}

// GetByQRCode obtiene un lote por su código QR.
func (r *BatchRepo) GetByQRCode(ctx context.Context, qrCode string) (*entity.Batch, error) {
	return r.getOne(ctx, "get batch by qr", `SELECT `+batchColumns+` FROM batches WHERE qr_code = $1`, qrCode)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, "get batch for update", `SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id)
}

// ListByStatus lista lotes por estado en orden de registro; "" = todos.
func (r *BatchRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM batches
		WHERE ($1 = '' OR status = $1)
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list batches by status: %w", err)
	}
	return collectBatches(rows)
}

// List lista lotes paginados en orden de registro.
func (r *BatchRepo) List(ctx context.Context, limit, offset int) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches ORDER BY seq LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return collectBatches(rows)
}

// Update persiste cantidad, estado y updated_at.
func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE batches SET quantity = $2, status = $3, updated_at = $4 WHERE id = $1`,
		b.ID, b.Quantity, b.Status, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, b.ID)
	}
	return nil
}

// SetStatus cambia status y updated_at sin escribir quantity.
func (r *BatchRepo) SetStatus(ctx context.Context, id, status string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE batches SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("set batch status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	return nil
}
