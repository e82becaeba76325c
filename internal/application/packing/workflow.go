// Package packing implementa el flujo de empaque guiado: por cada cajón del trabajo se escanea su QR,
// se confirman los lotes del checklist y se cierra; al completar el último cajón el trabajo queda bloqueado.
package packing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/application/ledger"
	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/pkg/logger"
)

// ItemInput lote requerido por un cajón.
type ItemInput struct {
	BatchID  string
	Quantity int
}

// DrawerInput cajón requerido por un trabajo.
type DrawerInput struct {
	DrawerID string
	Items    []ItemInput
}

// CreateJobInput datos de un trabajo de empaque.
type CreateJobInput struct {
	Flight          string
	StandardSeconds int
	Drawers         []DrawerInput
}

// jobSlot serializa todas las operaciones de un trabajo.
type jobSlot struct {
	mu  sync.Mutex
	job *entity.PackingJob
}

// Workflow máquina de estados de los trabajos de empaque. Los trabajos viven en memoria del proceso.
type Workflow struct {
	drawers DrawerResolver
	alloc   Allocator
	ledger  Ledger
	log     *logger.Logger
	now     func() time.Time

	mu    sync.RWMutex
	jobs  map[string]*jobSlot
	order []string
}

// NewWorkflow construye el flujo.
func NewWorkflow(drawers DrawerResolver, alloc Allocator, history Ledger, log *logger.Logger) *Workflow {
	return &Workflow{
		drawers: drawers,
		alloc:   alloc,
		ledger:  history,
		log:     log,
		now:     time.Now,
		jobs:    make(map[string]*jobSlot),
	}
}

// WithClock reemplaza el reloj (pruebas).
func (w *Workflow) WithClock(now func() time.Time) *Workflow {
	w.now = now
	return w
}

// CreateJob registra un trabajo con todos sus cajones pending.
func (w *Workflow) CreateJob(ctx context.Context, in CreateJobInput) (*entity.PackingJob, error) {
	if len(in.Drawers) == 0 {
		return nil, fmt.Errorf("%w: el trabajo requiere al menos un cajón", domain.ErrValidation)
	}
	if in.StandardSeconds < 0 {
		return nil, fmt.Errorf("%w: standard_seconds no puede ser negativo", domain.ErrValidation)
	}
	job := &entity.PackingJob{
		ID:              uuid.New().String(),
		Flight:          strings.TrimSpace(in.Flight),
		StandardSeconds: in.StandardSeconds,
		Drawers:         make([]entity.PackingDrawer, 0, len(in.Drawers)),
		CreatedAt:       w.now(),
	}
	seen := make(map[string]bool, len(in.Drawers))
	for _, d := range in.Drawers {
		id := strings.TrimSpace(d.DrawerID)
		if id == "" {
			return nil, fmt.Errorf("%w: drawer_id es obligatorio", domain.ErrValidation)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: cajón %s repetido en el trabajo", domain.ErrValidation, id)
		}
		seen[id] = true
		if _, err := w.drawers.GetByID(ctx, id); err != nil {
			return nil, err
		}
		pd := entity.PackingDrawer{DrawerID: id, State: entity.JobDrawerPending, Items: make([]entity.PackingItem, 0, len(d.Items))}
		batches := make(map[string]bool, len(d.Items))
		for _, it := range d.Items {
			bid := strings.TrimSpace(it.BatchID)
			if bid == "" || it.Quantity <= 0 {
				return nil, fmt.Errorf("%w: cada item requiere batch_id y quantity > 0", domain.ErrValidation)
			}
			if batches[bid] {
				return nil, fmt.Errorf("%w: lote %s repetido en el cajón %s", domain.ErrValidation, bid, id)
			}
			batches[bid] = true
			pd.Items = append(pd.Items, entity.PackingItem{BatchID: bid, Quantity: it.Quantity})
		}
		job.Drawers = append(job.Drawers, pd)
	}

	w.mu.Lock()
	w.jobs[job.ID] = &jobSlot{job: job}
	w.order = append(w.order, job.ID)
	w.mu.Unlock()
	return cloneJob(job), nil
}

// GetJob devuelve una copia del estado del trabajo.
func (w *Workflow) GetJob(_ context.Context, jobID string) (*entity.PackingJob, error) {
	slot, err := w.slot(jobID)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return cloneJob(slot.job), nil
}

// ListJobs devuelve los trabajos en orden de creación.
func (w *Workflow) ListJobs(_ context.Context) []*entity.PackingJob {
	w.mu.RLock()
	slots := make([]*jobSlot, 0, len(w.order))
	for _, id := range w.order {
		slots = append(slots, w.jobs[id])
	}
	w.mu.RUnlock()

	out := make([]*entity.PackingJob, 0, len(slots))
	for _, s := range slots {
		s.mu.Lock()
		out = append(out, cloneJob(s.job))
		s.mu.Unlock()
	}
	return out
}

// ScanDrawer valida que el código escaneado identifique al cajón seleccionado y lo pasa a in-progress.
// Un código que no coincide deja el estado sin cambios.
func (w *Workflow) ScanDrawer(ctx context.Context, jobID, drawerID, code string) (*entity.PackingJob, error) {
	slot, err := w.slot(jobID)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	pd, err := mutableDrawer(slot.job, drawerID)
	if err != nil {
		return nil, err
	}
	resolved, err := w.drawers.FindByQRCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q no corresponde a ningún cajón", domain.ErrMismatch, code)
	}
	if err != nil {
		return nil, err
	}
	if resolved.ID != pd.DrawerID {
		return nil, fmt.Errorf("%w: se escaneó %s y el cajón seleccionado es %s", domain.ErrMismatch, resolved.DrawerCode, pd.DrawerID)
	}
	if pd.State == entity.JobDrawerPending {
		now := w.now()
		pd.State = entity.JobDrawerInProgress
		pd.ScannedAt = &now
	}
	return cloneJob(slot.job), nil
}

// Assign confirma un lote del checklist del cajón asignándolo vía el rastreador.
// Con el trabajo bloqueado no llega a invocar al rastreador.
func (w *Workflow) Assign(ctx context.Context, jobID, drawerID, batchID, employeeID, employeeName string) (*allocation.AllocationResult, *entity.PackingJob, error) {
	slot, err := w.slot(jobID)
	if err != nil {
		return nil, nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	pd, err := mutableDrawer(slot.job, drawerID)
	if err != nil {
		return nil, nil, err
	}
	if pd.State != entity.JobDrawerInProgress {
		return nil, nil, fmt.Errorf("%w: escanee el cajón %s antes de asignar", domain.ErrInvalidTransition, pd.DrawerID)
	}
	item := checklistItem(pd, strings.TrimSpace(batchID))
	if item == nil {
		return nil, nil, fmt.Errorf("%w: el lote %s no está en el checklist del cajón", domain.ErrValidation, batchID)
	}
	if item.Confirmed {
		return nil, nil, fmt.Errorf("%w: el lote %s ya fue confirmado en el cajón", domain.ErrInvalidTransition, batchID)
	}

	res, err := w.alloc.Assign(ctx, allocation.AssignInput{
		DrawerID:     pd.DrawerID,
		BatchID:      item.BatchID,
		Quantity:     item.Quantity,
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
	})
	if err != nil {
		return nil, nil, err
	}
	item.Confirmed = true
	item.Warning = res.Warning
	item.StatusID = res.Status.ID
	return res, cloneJob(slot.job), nil
}

// CompleteDrawer cierra un cajón con el checklist completo y registra su resumen en el ledger.
// Si es el último cajón, el trabajo se bloquea en la misma sección crítica.
func (w *Workflow) CompleteDrawer(ctx context.Context, jobID, drawerID, employeeID, employeeName string) (*entity.PackingJob, error) {
	slot, err := w.slot(jobID)
	if err != nil {
		return nil, err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	job := slot.job
	pd, err := mutableDrawer(job, drawerID)
	if err != nil {
		return nil, err
	}
	if pd.State != entity.JobDrawerInProgress {
		return nil, fmt.Errorf("%w: el cajón %s está %s", domain.ErrInvalidTransition, pd.DrawerID, pd.State)
	}
	pending := 0
	for i := range pd.Items {
		if !pd.Items[i].Confirmed {
			pending++
		}
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: %d item(s) sin confirmar", domain.ErrChecklistIncomplete, pending)
	}

	now := w.now()
	eff := efficiency(job, pd, now)
	if employeeID == "" {
		employeeID = entity.SystemEmployeeID
	}
	zero := 0
	drawerRef := pd.DrawerID
	if _, err := w.ledger.Append(ctx, ledger.AppendInput{
		EmployeeID:      employeeID,
		EmployeeName:    employeeName,
		ActionType:      entity.ActionPacking,
		DrawerID:        &drawerRef,
		QuantityChanged: &zero,
		EfficiencyScore: &eff,
		Notes:           summaryNotes(job, pd),
		CompletionTime:  &now,
	}); err != nil {
		return nil, err
	}

	pd.State = entity.JobDrawerCompleted
	pd.CompletedAt = &now
	if job.AllCompleted() {
		job.Locked = true
		job.LockedAt = &now
		w.log.Info().Str("job_id", job.ID).Str("flight", job.Flight).Int("drawers", len(job.Drawers)).Msg("trabajo de empaque completado y bloqueado")
	}
	return cloneJob(job), nil
}

func (w *Workflow) slot(jobID string) (*jobSlot, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: trabajo %s", domain.ErrNotFound, jobID)
	}
	return s, nil
}

// mutableDrawer verifica que el trabajo admita cambios y que el cajón no esté completado.
func mutableDrawer(job *entity.PackingJob, drawerID string) (*entity.PackingDrawer, error) {
	if job.Locked {
		return nil, fmt.Errorf("%w: trabajo %s", domain.ErrJobLocked, job.ID)
	}
	pd := job.Drawer(drawerID)
	if pd == nil {
		return nil, fmt.Errorf("%w: el cajón %s no pertenece al trabajo", domain.ErrNotFound, drawerID)
	}
	if pd.State == entity.JobDrawerCompleted {
		return nil, fmt.Errorf("%w: el cajón %s ya está completado", domain.ErrInvalidTransition, drawerID)
	}
	return pd, nil
}

func checklistItem(pd *entity.PackingDrawer, batchID string) *entity.PackingItem {
	for i := range pd.Items {
		if pd.Items[i].BatchID == batchID {
			return &pd.Items[i]
		}
	}
	return nil
}

// efficiency = tiempo estándar por cajón / tiempo real × 100, con tope 100.
func efficiency(job *entity.PackingJob, pd *entity.PackingDrawer, now time.Time) int {
	if job.StandardSeconds <= 0 || pd.ScannedAt == nil {
		return 100
	}
	elapsed := now.Sub(*pd.ScannedAt)
	if elapsed <= 0 {
		return 100
	}
	// en segundos flotantes: standard_seconds grandes desbordarían time.Duration
	standard := float64(job.StandardSeconds) / float64(len(job.Drawers))
	eff := standard * 100 / elapsed.Seconds()
	if eff >= 100 {
		return 100
	}
	return int(eff)
}

func summaryNotes(job *entity.PackingJob, pd *entity.PackingDrawer) string {
	warnings := 0
	for _, it := range pd.Items {
		if it.Warning != "" {
			warnings++
		}
	}
	flight := job.Flight
	if flight == "" {
		flight = job.ID
	}
	return fmt.Sprintf("empaque guiado %s: cajón %s completado, %d item(s), %d con advertencia", flight, pd.DrawerID, len(pd.Items), warnings)
}

func cloneJob(j *entity.PackingJob) *entity.PackingJob {
	c := *j
	c.Drawers = make([]entity.PackingDrawer, len(j.Drawers))
	for i, d := range j.Drawers {
		d.Items = append([]entity.PackingItem(nil), d.Items...)
		c.Drawers[i] = d
	}
	return &c
}
