package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación en memoria de BatchRepository.
type BatchRepo struct {
	s *Store
}

// NewBatchRepository construye el adaptador de lotes en memoria.
func NewBatchRepository(s *Store) *BatchRepo {
	return &BatchRepo{s: s}
}

// Create inserta un lote. qr_code es único.
func (r *BatchRepo) Create(_ context.Context, b *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batchIndex[b.ID]; ok {
		return fmt.Errorf("%w: lote %s ya existe", domain.ErrDuplicate, b.ID)
	}
	for i := range r.s.batches {
		if r.s.batches[i].QRCode == b.QRCode {
			return fmt.Errorf("%w: qr_code %s ya registrado", domain.ErrDuplicate, b.QRCode)
		}
	}
	r.s.batchIndex[b.ID] = len(r.s.batches)
	r.s.batches = append(r.s.batches, *b)
	return nil
}

// GetByID obtiene un lote por ID. Retorna (nil, nil) si no existe.
func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.batchIndex[id]
	if !ok {
		return nil, nil
	}
	b := r.s.batches[i]
	return &b, nil
}

// GetByQRCode obtiene un lote por su código QR. Retorna (nil, nil) si no existe.
func (r *BatchRepo) GetByQRCode(_ context.Context, qrCode string) (*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.batches {
		if r.s.batches[i].QRCode == qrCode {
			b := r.s.batches[i]
			return &b, nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID: TxRunner ya serializa las transacciones.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

// ListByStatus lista lotes por estado en orden de registro; "" = todos.
func (r *BatchRepo) ListByStatus(_ context.Context, status string) ([]*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Batch, 0)
	for i := range r.s.batches {
		if status == "" || r.s.batches[i].Status == status {
			b := r.s.batches[i]
			out = append(out, &b)
		}
	}
	return out, nil
}

// List lista lotes paginados en orden de registro.
func (r *BatchRepo) List(_ context.Context, limit, offset int) ([]*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	from, to := page(len(r.s.batches), limit, offset)
	out := make([]*entity.Batch, 0, to-from)
	for i := from; i < to; i++ {
		b := r.s.batches[i]
		out = append(out, &b)
	}
	return out, nil
}

// Update persiste cantidad y estado.
func (r *BatchRepo) Update(_ context.Context, b *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.batchIndex[b.ID]
	if !ok {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, b.ID)
	}
	cur := &r.s.batches[i]
	cur.Quantity = b.Quantity
	cur.Status = b.Status
	cur.UpdatedAt = b.UpdatedAt
	return nil
}

// SetStatus cambia el estado sin tocar la cantidad.
func (r *BatchRepo) SetStatus(_ context.Context, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.batchIndex[id]
	if !ok {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	r.s.batches[i].Status = status
	r.s.batches[i].UpdatedAt = at
	return nil
}
