package repository

import (
	"context"

	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// DrawerRepository define el puerto de persistencia para cajones (DIP).
type DrawerRepository interface {
	Create(ctx context.Context, drawer *entity.Drawer) error
	GetByID(ctx context.Context, id string) (*entity.Drawer, error)
	// GetForUpdate bloquea la fila del cajón; serializa las asignaciones concurrentes sobre el mismo cajón.
	GetForUpdate(ctx context.Context, id string) (*entity.Drawer, error)
	// FindExact devuelve los cajones cuyo qr_code, drawer_code o id coinciden byte a byte con token;
	// la prioridad entre campos la resuelve el caso de uso.
	FindExact(ctx context.Context, token string) ([]*entity.Drawer, error)
	ListAll(ctx context.Context) ([]*entity.Drawer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Drawer, error)
	// Update persiste location, capacity, status y updated_at (los campos de identidad son inmutables).
	Update(ctx context.Context, drawer *entity.Drawer) error
}

// DrawerLayoutRepository define el puerto de persistencia para layouts de cajón.
type DrawerLayoutRepository interface {
	Create(ctx context.Context, layout *entity.DrawerLayout) error
	GetByID(ctx context.Context, id string) (*entity.DrawerLayout, error)
	GetByDrawer(ctx context.Context, drawerID string) (*entity.DrawerLayout, error)
	List(ctx context.Context, limit, offset int) ([]*entity.DrawerLayout, error)
	Update(ctx context.Context, layout *entity.DrawerLayout) error
}
