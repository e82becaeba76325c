package repository

import (
	"context"

	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// DrawerStatusRepository define el puerto para los registros de trazabilidad lote↔cajón.
// No existe Delete: los registros se marcan agotados, nunca se borran.
type DrawerStatusRepository interface {
	Create(ctx context.Context, status *entity.DrawerStatus) error
	// Update persiste quantity_loaded, status, is_depleted, employee_id, updated_at y depleted_at.
	Update(ctx context.Context, status *entity.DrawerStatus) error
	GetByID(ctx context.Context, id string) (*entity.DrawerStatus, error)
	// LatestByDrawer devuelve el registro más reciente del cajón (agotado o no), o nil si nunca se cargó.
	LatestByDrawer(ctx context.Context, drawerID string) (*entity.DrawerStatus, error)
	// ListByDrawer devuelve todos los registros del cajón en orden de creación.
	ListByDrawer(ctx context.Context, drawerID string) ([]*entity.DrawerStatus, error)
	// ListActiveByDrawer devuelve los registros no agotados del cajón en orden de creación.
	ListActiveByDrawer(ctx context.Context, drawerID string) ([]*entity.DrawerStatus, error)
	// SumActiveByBatch suma quantity_loaded de los registros no agotados del lote en todos los cajones,
	// excluyendo excludeID (vacío = no excluir).
	SumActiveByBatch(ctx context.Context, batchID, excludeID string) (int, error)
	List(ctx context.Context, limit, offset int) ([]*entity.DrawerStatus, error)
}
