package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

var _ repository.DrawerStatusRepository = (*DrawerStatusRepo)(nil)

// DrawerStatusRepo implementación en memoria de DrawerStatusRepository.
type DrawerStatusRepo struct {
	s *Store
}

// NewDrawerStatusRepository construye el adaptador de trazabilidad en memoria.
func NewDrawerStatusRepository(s *Store) *DrawerStatusRepo {
	return &DrawerStatusRepo{s: s}
}

func copyStatus(ds entity.DrawerStatus) *entity.DrawerStatus {
	ds.DepletedAt = clonePtr(ds.DepletedAt)
	return &ds
}

// Create inserta un registro.
func (r *DrawerStatusRepo) Create(_ context.Context, ds *entity.DrawerStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.statusIndex[ds.ID]; ok {
		return fmt.Errorf("%w: drawer status %s ya existe", domain.ErrDuplicate, ds.ID)
	}
	r.s.statusIndex[ds.ID] = len(r.s.statuses)
	r.s.statuses = append(r.s.statuses, *copyStatus(*ds))
	return nil
}

// Update persiste los campos mutables del registro.
func (r *DrawerStatusRepo) Update(_ context.Context, ds *entity.DrawerStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.statusIndex[ds.ID]
	if !ok {
		return fmt.Errorf("%w: drawer status %s", domain.ErrNotFound, ds.ID)
	}
	cur := &r.s.statuses[i]
	cur.QuantityLoaded = ds.QuantityLoaded
	cur.Status = ds.Status
	cur.IsDepleted = ds.IsDepleted
	cur.EmployeeID = ds.EmployeeID
	cur.UpdatedAt = ds.UpdatedAt
	cur.DepletedAt = clonePtr(ds.DepletedAt)
	return nil
}

// GetByID obtiene un registro. Retorna (nil, nil) si no existe.
func (r *DrawerStatusRepo) GetByID(_ context.Context, id string) (*entity.DrawerStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.statusIndex[id]
	if !ok {
		return nil, nil
	}
	return copyStatus(r.s.statuses[i]), nil
}

// LatestByDrawer devuelve el último registro insertado del cajón o nil.
func (r *DrawerStatusRepo) LatestByDrawer(_ context.Context, drawerID string) (*entity.DrawerStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := len(r.s.statuses) - 1; i >= 0; i-- {
		if r.s.statuses[i].DrawerID == drawerID {
			return copyStatus(r.s.statuses[i]), nil
		}
	}
	return nil, nil
}

// ListByDrawer devuelve todos los registros del cajón en orden de creación.
func (r *DrawerStatusRepo) ListByDrawer(_ context.Context, drawerID string) ([]*entity.DrawerStatus, error) {
	return r.filter(func(ds *entity.DrawerStatus) bool { return ds.DrawerID == drawerID }), nil
}

// ListActiveByDrawer devuelve los registros no agotados del cajón en orden de creación.
func (r *DrawerStatusRepo) ListActiveByDrawer(_ context.Context, drawerID string) ([]*entity.DrawerStatus, error) {
	return r.filter(func(ds *entity.DrawerStatus) bool { return ds.DrawerID == drawerID && !ds.IsDepleted }), nil
}

// SumActiveByBatch suma la cantidad cargada no agotada del lote en todos los cajones.
func (r *DrawerStatusRepo) SumActiveByBatch(_ context.Context, batchID, excludeID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := 0
	for i := range r.s.statuses {
		ds := &r.s.statuses[i]
		if ds.BatchID == batchID && !ds.IsDepleted && ds.ID != excludeID {
			total += ds.QuantityLoaded
		}
	}
	return total, nil
}

// List lista registros paginados en orden de creación.
func (r *DrawerStatusRepo) List(_ context.Context, limit, offset int) ([]*entity.DrawerStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	from, to := page(len(r.s.statuses), limit, offset)
	out := make([]*entity.DrawerStatus, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, copyStatus(r.s.statuses[i]))
	}
	return out, nil
}

func (r *DrawerStatusRepo) filter(keep func(*entity.DrawerStatus) bool) []*entity.DrawerStatus {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.DrawerStatus, 0)
	for i := range r.s.statuses {
		if keep(&r.s.statuses[i]) {
			out = append(out, copyStatus(r.s.statuses[i]))
		}
	}
	return out
}
