package allocation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

// Deplete marca agotado el registro no agotado del lote en el cajón al que pertenece statusID.
// Nunca borra: deja is_depleted, status empty y depleted_at. Es idempotente: si el lote ya
// estaba agotado en ese cajón devuelve el registro sin cambios.
// Descuenta del lote la cantidad consumida; el estado del lote no se toca aquí.
func (uc *Tracker) Deplete(ctx context.Context, statusID, batchID string) (*DepleteResult, error) {
	batchID = strings.TrimSpace(batchID)
	if statusID == "" || batchID == "" {
		return nil, fmt.Errorf("%w: drawer status y batch_id son obligatorios", domain.ErrValidation)
	}
	ref, err := uc.statusRepo.GetByID(ctx, statusID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("%w: drawer status %s", domain.ErrNotFound, statusID)
	}

	unlock, err := uc.locker.Lock(ctx, ref.DrawerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *DepleteResult
	err = uc.txRunner.Run(ctx, func(
		drawerRepo repository.DrawerRepository,
		batchRepo repository.BatchRepository,
		statusRepo repository.DrawerStatusRepository,
		_ repository.RestockHistoryRepository,
	) error {
		if _, err := drawerRepo.GetForUpdate(ctx, ref.DrawerID); err != nil {
			return err
		}
		records, err := statusRepo.ListByDrawer(ctx, ref.DrawerID)
		if err != nil {
			return err
		}
		var target, lastDepleted *entity.DrawerStatus
		for _, ds := range records {
			if ds.BatchID != batchID {
				continue
			}
			if !ds.IsDepleted {
				target = ds
				break
			}
			lastDepleted = ds
		}

		batch, err := batchRepo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}

		if target == nil {
			if lastDepleted == nil {
				return fmt.Errorf("%w: el lote %s no está cargado en el cajón %s", domain.ErrNotFound, batchID, ref.DrawerID)
			}
			result = &DepleteResult{Status: lastDepleted, AlreadyDepleted: true}
			if batch != nil {
				result.BatchRemaining = batch.Quantity
				result.BatchStatus = batch.Status
			}
			return nil
		}

		now := uc.now()
		consumed := target.QuantityLoaded
		target.IsDepleted = true
		target.Status = entity.FillStatusEmpty
		target.DepletedAt = &now
		target.UpdatedAt = now
		if err := statusRepo.Update(ctx, target); err != nil {
			return err
		}

		result = &DepleteResult{Status: target}
		if batch != nil {
			batch.Quantity -= consumed
			if batch.Quantity < 0 {
				batch.Quantity = 0
			}
			batch.UpdatedAt = now
			if err := batchRepo.Update(ctx, batch); err != nil {
				return err
			}
			result.BatchRemaining = batch.Quantity
			result.BatchStatus = batch.Status
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
