package allocation

import (
	"context"
	"fmt"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// Las consultas no toman el bloqueo por cajón.

// GetByID obtiene un registro de trazabilidad.
func (uc *Tracker) GetByID(ctx context.Context, statusID string) (*entity.DrawerStatus, error) {
	ds, err := uc.statusRepo.GetByID(ctx, statusID)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: drawer status %s", domain.ErrNotFound, statusID)
	}
	return ds, nil
}

// GetByDrawer devuelve el registro más reciente del cajón (agotado o no).
// Un cajón nunca cargado devuelve ErrNotFound: es un resultado esperado, no una falla.
func (uc *Tracker) GetByDrawer(ctx context.Context, drawerID string) (*entity.DrawerStatus, error) {
	ds, err := uc.statusRepo.LatestByDrawer(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: el cajón %s no tiene cargas", domain.ErrNotFound, drawerID)
	}
	return ds, nil
}

// GetBatchesInDrawer devuelve todos los registros del cajón al que pertenece statusID.
func (uc *Tracker) GetBatchesInDrawer(ctx context.Context, statusID string) ([]*entity.DrawerStatus, error) {
	ref, err := uc.GetByID(ctx, statusID)
	if err != nil {
		return nil, err
	}
	return uc.statusRepo.ListByDrawer(ctx, ref.DrawerID)
}

// GetNonDepletedBatches devuelve los registros no agotados del cajón.
func (uc *Tracker) GetNonDepletedBatches(ctx context.Context, drawerID string) ([]*entity.DrawerStatus, error) {
	return uc.statusRepo.ListActiveByDrawer(ctx, drawerID)
}

// GetNonDepletedByStatus igual que GetNonDepletedBatches, resolviendo el cajón desde un registro.
func (uc *Tracker) GetNonDepletedByStatus(ctx context.Context, statusID string) ([]*entity.DrawerStatus, error) {
	ref, err := uc.GetByID(ctx, statusID)
	if err != nil {
		return nil, err
	}
	return uc.statusRepo.ListActiveByDrawer(ctx, ref.DrawerID)
}

// Utilization calcula la ocupación del cajón desde sus registros no agotados.
func (uc *Tracker) Utilization(ctx context.Context, drawerID string) (*Utilization, error) {
	drawer, err := uc.drawerRepo.GetByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if drawer == nil {
		return nil, fmt.Errorf("%w: cajón %s", domain.ErrNotFound, drawerID)
	}
	active, err := uc.statusRepo.ListActiveByDrawer(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	u := &Utilization{DrawerID: drawer.ID, Capacity: drawer.Capacity}
	for _, ds := range active {
		u.TotalQuantity += ds.QuantityLoaded
	}
	u.ActiveBatchCount = len(active)
	u.HasStacking = u.ActiveBatchCount > 1
	u.FillStatus = entity.UtilizationFillStatus(u.TotalQuantity, drawer.Capacity, uc.restockThresholdPct)
	return u, nil
}

// List lista los registros de trazabilidad paginados.
func (uc *Tracker) List(ctx context.Context, limit, offset int) ([]*entity.DrawerStatus, error) {
	return uc.statusRepo.List(ctx, limit, offset)
}
