package repository

import (
	"context"
	"time"

	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes (DIP).
// Las lecturas por ID devuelven (nil, nil) cuando el lote no existe.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	GetByQRCode(ctx context.Context, qrCode string) (*entity.Batch, error)
	// GetForUpdate bloquea la fila del lote hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Batch, error)
	// ListByStatus devuelve todos los lotes en el estado indicado en orden de registro; "" = todos.
	ListByStatus(ctx context.Context, status string) ([]*entity.Batch, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Batch, error)
	// Update persiste quantity, status y updated_at.
	Update(ctx context.Context, batch *entity.Batch) error
	// SetStatus cambia solo status y updated_at; nunca escribe quantity.
	SetStatus(ctx context.Context, id, status string, at time.Time) error
}
