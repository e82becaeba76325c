package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/fefo"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

// Códigos de resultado de validación.
const (
	ScanFEFOOK        = "FEFO_OK"
	ScanFEFOViolation = "FEFO_VIOLATION"
	ScanExpired       = "EXPIRED"
	ReturnOK          = "RETURN_OK"

	ActionReturnToWarehouse = "RETURN_TO_WAREHOUSE"
	ActionDiscard           = "DISCARD"
)

// FEFOViolationError el lote escaneado no es el que vence primero para su tipo.
// Envuelve domain.ErrFEFOViolation y lleva el lote que debe usarse.
type FEFOViolationError struct {
	Scanned  *entity.Batch
	Required *entity.Batch
}

func (e *FEFOViolationError) Error() string {
	return fmt.Sprintf("%s: use primero el lote %s (vence %s)",
		domain.ErrFEFOViolation, e.Required.BatchNumber, e.Required.ExpiryDate.Format("2006-01-02"))
}

func (e *FEFOViolationError) Unwrap() error { return domain.ErrFEFOViolation }

// ReturnResult resultado de procesar un lote devuelto.
type ReturnResult struct {
	Batch  *entity.Batch
	Action string
}

// ValidateScan verifica que el lote escaneado para empaque respete FEFO.
func (uc *UseCase) ValidateScan(ctx context.Context, qrCode string) (*entity.Batch, error) {
	batch, err := uc.byQRCode(ctx, qrCode)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if batch.IsExpired(now) {
		return batch, fmt.Errorf("%w: el lote %s venció el %s", domain.ErrExpiredBatch, batch.BatchNumber, batch.ExpiryDate.Format("2006-01-02"))
	}
	if !batch.IsAvailable() {
		return batch, fmt.Errorf("%w: el lote %s está agotado", domain.ErrValidation, batch.BatchNumber)
	}

	available, err := uc.batchRepo.ListByStatus(ctx, entity.BatchStatusAvailable)
	if err != nil {
		return nil, err
	}
	first := fefo.FirstEligible(available, batch.ItemType, now)
	if first != nil && first.ID != batch.ID && first.ExpiryDate.Before(batch.ExpiryDate) {
		return batch, &FEFOViolationError{Scanned: batch, Required: first}
	}
	return batch, nil
}

// ValidateReturn decide el destino de un lote devuelto de un vuelo: vencido se desecha
// (y queda agotado), vigente vuelve a bodega. Con employee_id deja una entrada removal.
func (uc *UseCase) ValidateReturn(ctx context.Context, qrCode, employeeID, employeeName string) (*ReturnResult, error) {
	batch, err := uc.byQRCode(ctx, qrCode)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	res := &ReturnResult{Batch: batch, Action: ActionReturnToWarehouse}
	if batch.IsExpired(now) {
		res.Action = ActionDiscard
	}

	err = uc.txRunner.RunCatalog(ctx, func(batchRepo repository.BatchRepository, historyRepo repository.RestockHistoryRepository) error {
		if res.Action == ActionDiscard {
			cur, err := batchRepo.GetForUpdate(ctx, batch.ID)
			if err != nil {
				return err
			}
			if cur == nil {
				return fmt.Errorf("%w: lote %s", domain.ErrNotFound, batch.ID)
			}
			if cur.Status != entity.BatchStatusDepleted {
				if err := batchRepo.SetStatus(ctx, cur.ID, entity.BatchStatusDepleted, now); err != nil {
					return err
				}
				cur.Status = entity.BatchStatusDepleted
				cur.UpdatedAt = now
			}
			batch = cur
			res.Batch = cur
		}
		if employeeID == "" {
			return nil
		}
		return historyRepo.Create(ctx, &entity.RestockHistoryRecord{
			ID:              uuid.New().String(),
			EmployeeID:      employeeID,
			EmployeeName:    employeeName,
			ActionType:      entity.ActionRemoval,
			BatchID:         &batch.ID,
			AccuracyScore:   100,
			EfficiencyScore: 100,
			Notes:           fmt.Sprintf("retorno %s: lote %s", res.Action, batch.BatchNumber),
			CompletionTime:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (uc *UseCase) byQRCode(ctx context.Context, qrCode string) (*entity.Batch, error) {
	qrCode = strings.TrimSpace(qrCode)
	if qrCode == "" {
		return nil, fmt.Errorf("%w: qr_code es obligatorio", domain.ErrValidation)
	}
	batch, err := uc.batchRepo.GetByQRCode(ctx, qrCode)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: lote con qr_code %s", domain.ErrNotFound, qrCode)
	}
	return batch, nil
}
