// Package catalog implementa el catálogo de lotes perecederos y sus vistas FEFO.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/fefo"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

// CreateInput datos para registrar un lote.
type CreateInput struct {
	ItemType     string
	BatchNumber  string
	Quantity     int
	ExpiryDate   time.Time
	QRCode       string
	EmployeeID   string
	EmployeeName string
}

// UseCase casos de uso del catálogo de lotes.
type UseCase struct {
	batchRepo    repository.BatchRepository
	txRunner     TxRunner
	expiringDays int
	criticalDays int
	now          func() time.Time
}

// NewUseCase construye el caso de uso. expiringDays y criticalDays son los horizontes por defecto
// de ExpiringSoon y ExpiryDashboard.
func NewUseCase(batchRepo repository.BatchRepository, txRunner TxRunner, expiringDays, criticalDays int) *UseCase {
	return &UseCase{
		batchRepo:    batchRepo,
		txRunner:     txRunner,
		expiringDays: expiringDays,
		criticalDays: criticalDays,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create registra un lote disponible. Si viene employee_id deja una entrada registration en el ledger.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Batch, error) {
	in.ItemType = strings.TrimSpace(in.ItemType)
	in.BatchNumber = strings.TrimSpace(in.BatchNumber)
	in.QRCode = strings.TrimSpace(in.QRCode)
	switch {
	case in.ItemType == "":
		return nil, fmt.Errorf("%w: item_type es obligatorio", domain.ErrValidation)
	case in.BatchNumber == "":
		return nil, fmt.Errorf("%w: batch_number es obligatorio", domain.ErrValidation)
	case in.Quantity <= 0:
		return nil, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrValidation)
	case in.ExpiryDate.IsZero():
		return nil, fmt.Errorf("%w: expiry_date es obligatorio", domain.ErrValidation)
	case in.QRCode == "":
		return nil, fmt.Errorf("%w: qr_code es obligatorio", domain.ErrValidation)
	}

	now := uc.now()
	batch := &entity.Batch{
		ID:          uuid.New().String(),
		ItemType:    in.ItemType,
		BatchNumber: in.BatchNumber,
		Quantity:    in.Quantity,
		ExpiryDate:  in.ExpiryDate,
		QRCode:      in.QRCode,
		Status:      entity.BatchStatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.RunCatalog(ctx, func(batchRepo repository.BatchRepository, historyRepo repository.RestockHistoryRepository) error {
		existing, err := batchRepo.GetByQRCode(ctx, batch.QRCode)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: qr_code %s ya registrado", domain.ErrDuplicate, batch.QRCode)
		}
		if err := batchRepo.Create(ctx, batch); err != nil {
			return err
		}
		if in.EmployeeID == "" {
			return nil
		}
		qty := batch.Quantity
		return historyRepo.Create(ctx, &entity.RestockHistoryRecord{
			ID:              uuid.New().String(),
			EmployeeID:      in.EmployeeID,
			EmployeeName:    in.EmployeeName,
			ActionType:      entity.ActionRegistration,
			BatchID:         &batch.ID,
			QuantityChanged: &qty,
			AccuracyScore:   100,
			EfficiencyScore: 100,
			Notes:           "registro de lote " + batch.BatchNumber,
			CompletionTime:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// GetByID obtiene un lote.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	b, err := uc.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	return b, nil
}

// List lista lotes paginados en orden de registro.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Batch, error) {
	return uc.batchRepo.List(ctx, limit, offset)
}

// GetByStatus lista los lotes en el estado indicado.
func (uc *UseCase) GetByStatus(ctx context.Context, status string) ([]*entity.Batch, error) {
	if status != entity.BatchStatusAvailable && status != entity.BatchStatusDepleted {
		return nil, fmt.Errorf("%w: status debe ser available o depleted", domain.ErrValidation)
	}
	return uc.batchRepo.ListByStatus(ctx, status)
}

// MarkDepleted marca el lote como agotado. Idempotente.
// Bloquea la fila del lote y solo cambia el estado: la cantidad restante no se reescribe.
func (uc *UseCase) MarkDepleted(ctx context.Context, id string) (*entity.Batch, error) {
	var out *entity.Batch
	err := uc.txRunner.RunCatalog(ctx, func(batchRepo repository.BatchRepository, _ repository.RestockHistoryRepository) error {
		b, err := batchRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}
		if b.Status != entity.BatchStatusDepleted {
			if err := batchRepo.SetStatus(ctx, b.ID, entity.BatchStatusDepleted, uc.now()); err != nil {
				return err
			}
		}
		out, err = batchRepo.GetByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AvailableFEFO devuelve los lotes disponibles en orden FEFO.
func (uc *UseCase) AvailableFEFO(ctx context.Context) ([]*entity.Batch, error) {
	all, err := uc.batchRepo.ListByStatus(ctx, entity.BatchStatusAvailable)
	if err != nil {
		return nil, err
	}
	return fefo.AvailableOrderedByExpiry(all), nil
}

// ExpiringSoon devuelve los lotes disponibles que vencen dentro de days (0 = horizonte por defecto).
func (uc *UseCase) ExpiringSoon(ctx context.Context, days int) ([]*entity.Batch, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days no puede ser negativo", domain.ErrValidation)
	}
	if days == 0 {
		days = uc.expiringDays
	}
	all, err := uc.batchRepo.ListByStatus(ctx, entity.BatchStatusAvailable)
	if err != nil {
		return nil, err
	}
	return fefo.ExpiringWithin(all, uc.now(), days), nil
}
