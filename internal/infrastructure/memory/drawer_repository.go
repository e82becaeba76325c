package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

var (
	_ repository.DrawerRepository       = (*DrawerRepo)(nil)
	_ repository.DrawerLayoutRepository = (*DrawerLayoutRepo)(nil)
)

// DrawerRepo implementación en memoria de DrawerRepository.
type DrawerRepo struct {
	s *Store
}

// NewDrawerRepository construye el adaptador de cajones en memoria.
func NewDrawerRepository(s *Store) *DrawerRepo {
	return &DrawerRepo{s: s}
}

// Create inserta un cajón. drawer_code y qr_code son únicos.
func (r *DrawerRepo) Create(_ context.Context, d *entity.Drawer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.drawerIndex[d.ID]; ok {
		return fmt.Errorf("%w: cajón %s ya existe", domain.ErrDuplicate, d.ID)
	}
	for i := range r.s.drawers {
		if r.s.drawers[i].DrawerCode == d.DrawerCode {
			return fmt.Errorf("%w: drawer_code %s ya registrado", domain.ErrDuplicate, d.DrawerCode)
		}
		if r.s.drawers[i].QRCode == d.QRCode {
			return fmt.Errorf("%w: qr_code %s ya registrado", domain.ErrDuplicate, d.QRCode)
		}
	}
	r.s.drawerIndex[d.ID] = len(r.s.drawers)
	r.s.drawers = append(r.s.drawers, *d)
	return nil
}

// GetByID obtiene un cajón por ID. Retorna (nil, nil) si no existe.
func (r *DrawerRepo) GetByID(_ context.Context, id string) (*entity.Drawer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.drawerIndex[id]
	if !ok {
		return nil, nil
	}
	d := r.s.drawers[i]
	return &d, nil
}

// GetForUpdate equivale a GetByID: TxRunner ya serializa las transacciones.
func (r *DrawerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Drawer, error) {
	return r.GetByID(ctx, id)
}

// FindExact devuelve los cajones con qr_code, drawer_code o id igual a token.
func (r *DrawerRepo) FindExact(_ context.Context, token string) ([]*entity.Drawer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Drawer, 0, 1)
	for i := range r.s.drawers {
		d := r.s.drawers[i]
		if d.QRCode == token || d.DrawerCode == token || d.ID == token {
			out = append(out, &d)
		}
	}
	return out, nil
}

// ListAll lista todos los cajones en orden de registro.
func (r *DrawerRepo) ListAll(ctx context.Context) ([]*entity.Drawer, error) {
	return r.List(ctx, 0, 0)
}

// List lista cajones paginados; limit <= 0 = sin límite.
func (r *DrawerRepo) List(_ context.Context, limit, offset int) ([]*entity.Drawer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	from, to := page(len(r.s.drawers), limit, offset)
	out := make([]*entity.Drawer, 0, to-from)
	for i := from; i < to; i++ {
		d := r.s.drawers[i]
		out = append(out, &d)
	}
	return out, nil
}

// Update persiste location, capacity y status.
func (r *DrawerRepo) Update(_ context.Context, d *entity.Drawer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.drawerIndex[d.ID]
	if !ok {
		return fmt.Errorf("%w: cajón %s", domain.ErrNotFound, d.ID)
	}
	cur := &r.s.drawers[i]
	cur.Location = d.Location
	cur.Capacity = d.Capacity
	cur.Status = d.Status
	cur.UpdatedAt = d.UpdatedAt
	return nil
}

// DrawerLayoutRepo implementación en memoria de DrawerLayoutRepository.
type DrawerLayoutRepo struct {
	s *Store
}

// NewDrawerLayoutRepository construye el adaptador de layouts en memoria.
func NewDrawerLayoutRepository(s *Store) *DrawerLayoutRepo {
	return &DrawerLayoutRepo{s: s}
}

// Create inserta un layout; un cajón tiene a lo sumo uno.
func (r *DrawerLayoutRepo) Create(_ context.Context, l *entity.DrawerLayout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.layouts {
		if r.s.layouts[i].DrawerID == l.DrawerID {
			return fmt.Errorf("%w: el cajón %s ya tiene layout", domain.ErrDuplicate, l.DrawerID)
		}
	}
	r.s.layoutIndex[l.ID] = len(r.s.layouts)
	r.s.layouts = append(r.s.layouts, *l)
	return nil
}

// GetByID obtiene un layout. Retorna (nil, nil) si no existe.
func (r *DrawerLayoutRepo) GetByID(_ context.Context, id string) (*entity.DrawerLayout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.layoutIndex[id]
	if !ok {
		return nil, nil
	}
	l := r.s.layouts[i]
	return &l, nil
}

// GetByDrawer obtiene el layout de un cajón. Retorna (nil, nil) si no existe.
func (r *DrawerLayoutRepo) GetByDrawer(_ context.Context, drawerID string) (*entity.DrawerLayout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.layouts {
		if r.s.layouts[i].DrawerID == drawerID {
			l := r.s.layouts[i]
			return &l, nil
		}
	}
	return nil, nil
}

// List lista layouts paginados.
func (r *DrawerLayoutRepo) List(_ context.Context, limit, offset int) ([]*entity.DrawerLayout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	from, to := page(len(r.s.layouts), limit, offset)
	out := make([]*entity.DrawerLayout, 0, to-from)
	for i := from; i < to; i++ {
		l := r.s.layouts[i]
		out = append(out, &l)
	}
	return out, nil
}

// Update persiste layout_config.
func (r *DrawerLayoutRepo) Update(_ context.Context, l *entity.DrawerLayout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.layoutIndex[l.ID]
	if !ok {
		return fmt.Errorf("%w: layout %s", domain.ErrNotFound, l.ID)
	}
	r.s.layouts[i].LayoutConfig = l.LayoutConfig
	r.s.layouts[i].UpdatedAt = l.UpdatedAt
	return nil
}
