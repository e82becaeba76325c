// Package allocation implementa el rastreador de asignaciones lote↔cajón:
// carga con detección de apilamiento, agotamiento no destructivo y consultas de ocupación.
package allocation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
	"github.com/jhoicas/trolley-api/pkg/logger"
)

// WarningStackingDetected tipo de advertencia cuando un cajón ya tenía otro lote sin agotar.
const WarningStackingDetected = "StackingDetected"

// defaultScore puntaje asignado cuando el cliente no informa uno.
const defaultScore = 100

// AssignInput datos de una asignación de lote a cajón.
type AssignInput struct {
	DrawerID        string
	BatchID         string
	Quantity        int
	EmployeeID      string
	EmployeeName    string
	AccuracyScore   *int
	EfficiencyScore *int
}

// ConflictingBatch lote no agotado que ya ocupaba el cajón al momento de asignar.
type ConflictingBatch struct {
	StatusID       string
	BatchID        string
	BatchNumber    string
	QuantityLoaded int
	ExpiryDate     time.Time
}

// AllocationResult resultado de Assign. Warning vacío = escritura limpia.
type AllocationResult struct {
	Status             *entity.DrawerStatus
	Created            bool
	Warning            string
	ConflictingBatches []ConflictingBatch
}

// HasWarning indica éxito parcial (HTTP 207).
func (r *AllocationResult) HasWarning() bool {
	return r.Warning != ""
}

// DepleteResult resultado de Deplete.
type DepleteResult struct {
	Status          *entity.DrawerStatus
	AlreadyDepleted bool
	BatchRemaining  int
	BatchStatus     string
}

// Utilization ocupación de un cajón calculada sobre sus registros no agotados.
type Utilization struct {
	DrawerID         string
	Capacity         int
	TotalQuantity    int
	ActiveBatchCount int
	HasStacking      bool
	FillStatus       string
}

// Tracker caso de uso del rastreador de asignaciones.
type Tracker struct {
	drawerRepo          repository.DrawerRepository
	statusRepo          repository.DrawerStatusRepository
	txRunner            TxRunner
	locker              DrawerLocker
	log                 *logger.Logger
	restockThresholdPct int
	now                 func() time.Time
}

// NewTracker construye el caso de uso. restockThresholdPct es el % de capacidad bajo el cual
// Utilization informa needs_restock.
func NewTracker(
	drawerRepo repository.DrawerRepository,
	statusRepo repository.DrawerStatusRepository,
	txRunner TxRunner,
	locker DrawerLocker,
	log *logger.Logger,
	restockThresholdPct int,
) *Tracker {
	return &Tracker{
		drawerRepo:          drawerRepo,
		statusRepo:          statusRepo,
		txRunner:            txRunner,
		locker:              locker,
		log:                 log,
		restockThresholdPct: restockThresholdPct,
		now:                 time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *Tracker) WithClock(now func() time.Time) *Tracker {
	uc.now = now
	return uc
}

// Assign carga quantity unidades del lote en el cajón bajo la sección crítica del cajón.
// Si el cajón ya tiene registros no agotados de otros lotes la escritura se hace igual y se informa
// StackingDetected con los lotes en conflicto. Si ya tiene el mismo lote, se actualiza ese registro.
func (uc *Tracker) Assign(ctx context.Context, in AssignInput) (*AllocationResult, error) {
	in.DrawerID = strings.TrimSpace(in.DrawerID)
	in.BatchID = strings.TrimSpace(in.BatchID)
	if in.DrawerID == "" || in.BatchID == "" {
		return nil, fmt.Errorf("%w: drawer_id y batch_id son obligatorios", domain.ErrValidation)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity_loaded debe ser mayor que cero", domain.ErrValidation)
	}
	if err := validScore(in.AccuracyScore); err != nil {
		return nil, err
	}
	if err := validScore(in.EfficiencyScore); err != nil {
		return nil, err
	}

	unlock, err := uc.locker.Lock(ctx, in.DrawerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *AllocationResult
	err = uc.txRunner.Run(ctx, func(
		drawerRepo repository.DrawerRepository,
		batchRepo repository.BatchRepository,
		statusRepo repository.DrawerStatusRepository,
		historyRepo repository.RestockHistoryRepository,
	) error {
		// Orden de bloqueo fijo: fila del cajón y luego fila del lote.
		drawer, err := drawerRepo.GetForUpdate(ctx, in.DrawerID)
		if err != nil {
			return err
		}
		if drawer == nil {
			return fmt.Errorf("%w: cajón %s", domain.ErrNotFound, in.DrawerID)
		}
		batch, err := batchRepo.GetForUpdate(ctx, in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, in.BatchID)
		}
		if !batch.IsAvailable() {
			return fmt.Errorf("%w: el lote %s está agotado", domain.ErrValidation, batch.BatchNumber)
		}
		if in.Quantity > batch.Quantity {
			return fmt.Errorf("%w: cantidad %d mayor que la disponible del lote (%d)", domain.ErrValidation, in.Quantity, batch.Quantity)
		}

		active, err := statusRepo.ListActiveByDrawer(ctx, drawer.ID)
		if err != nil {
			return err
		}
		var same *entity.DrawerStatus
		others := make([]*entity.DrawerStatus, 0, len(active))
		for _, ds := range active {
			if ds.BatchID == batch.ID {
				if same == nil {
					same = ds
				}
				continue
			}
			others = append(others, ds)
		}

		excludeID := ""
		if same != nil {
			excludeID = same.ID
		}
		allocated, err := statusRepo.SumActiveByBatch(ctx, batch.ID, excludeID)
		if err != nil {
			return err
		}
		if allocated+in.Quantity > batch.Quantity {
			return fmt.Errorf("%w: lote %s tiene %d asignadas de %d, no admite %d más",
				domain.ErrOverAllocation, batch.BatchNumber, allocated, batch.Quantity, in.Quantity)
		}

		now := uc.now()
		res := &AllocationResult{}
		if same != nil {
			same.QuantityLoaded = in.Quantity
			same.Status = entity.FillStatusFor(in.Quantity, drawer.Capacity)
			if in.EmployeeID != "" {
				same.EmployeeID = in.EmployeeID
			}
			same.UpdatedAt = now
			if err := statusRepo.Update(ctx, same); err != nil {
				return err
			}
			res.Status = same
		} else {
			ds := &entity.DrawerStatus{
				ID:             uuid.New().String(),
				DrawerID:       drawer.ID,
				BatchID:        batch.ID,
				QuantityLoaded: in.Quantity,
				Status:         entity.FillStatusFor(in.Quantity, drawer.Capacity),
				EmployeeID:     in.EmployeeID,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := statusRepo.Create(ctx, ds); err != nil {
				return err
			}
			res.Status = ds
			res.Created = true
		}

		if len(others) > 0 {
			res.Warning = WarningStackingDetected
			for _, o := range others {
				cb := ConflictingBatch{StatusID: o.ID, BatchID: o.BatchID, QuantityLoaded: o.QuantityLoaded}
				ob, err := batchRepo.GetByID(ctx, o.BatchID)
				if err != nil {
					return err
				}
				if ob != nil {
					cb.BatchNumber = ob.BatchNumber
					cb.ExpiryDate = ob.ExpiryDate
				}
				res.ConflictingBatches = append(res.ConflictingBatches, cb)
			}
		}

		if err := historyRepo.Create(ctx, packingRecord(in, drawer.ID, batch.ID, res, now)); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.HasWarning() {
		uc.log.Warn().
			Str("drawer_id", in.DrawerID).
			Str("batch_id", in.BatchID).
			Int("conflicting_batches", len(result.ConflictingBatches)).
			Msg("apilamiento detectado al asignar lote")
	}
	return result, nil
}

// packingRecord arma la entrada del ledger correlacionada con una asignación.
func packingRecord(in AssignInput, drawerID, batchID string, res *AllocationResult, now time.Time) *entity.RestockHistoryRecord {
	employeeID := in.EmployeeID
	if employeeID == "" {
		employeeID = entity.SystemEmployeeID
	}
	qty := in.Quantity
	rec := &entity.RestockHistoryRecord{
		ID:              uuid.New().String(),
		EmployeeID:      employeeID,
		EmployeeName:    in.EmployeeName,
		ActionType:      entity.ActionPacking,
		DrawerID:        &drawerID,
		BatchID:         &batchID,
		QuantityChanged: &qty,
		AccuracyScore:   scoreOrDefault(in.AccuracyScore),
		EfficiencyScore: scoreOrDefault(in.EfficiencyScore),
		CompletionTime:  now,
	}
	if res.HasWarning() {
		ids := make([]string, 0, len(res.ConflictingBatches))
		for _, cb := range res.ConflictingBatches {
			label := cb.BatchNumber
			if label == "" {
				label = cb.BatchID
			}
			ids = append(ids, label)
		}
		rec.Notes = fmt.Sprintf("%s: cajón %s ya contenía %s", entity.WarningTag, drawerID, strings.Join(ids, ", "))
	}
	return rec
}

func validScore(s *int) error {
	if s != nil && (*s < 0 || *s > 100) {
		return fmt.Errorf("%w: los puntajes deben estar entre 0 y 100", domain.ErrValidation)
	}
	return nil
}

func scoreOrDefault(s *int) int {
	if s == nil {
		return defaultScore
	}
	return *s
}
