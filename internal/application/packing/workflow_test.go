package packing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/application/drawers"
	"github.com/jhoicas/trolley-api/internal/application/ledger"
	"github.com/jhoicas/trolley-api/internal/application/packing"
	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/infrastructure/lock"
	"github.com/jhoicas/trolley-api/internal/infrastructure/memory"
	"github.com/jhoicas/trolley-api/pkg/logger"
)

type env struct {
	workflow *packing.Workflow
	statuses *memory.DrawerStatusRepo
	history  *memory.RestockHistoryRepo
	clock    *clock
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	batches, drawerRepo, layoutRepo, statuses, history := s.Repos()
	clk := &clock{now: time.Date(2026, 1, 3, 6, 0, 0, 0, time.UTC)}

	for _, id := range []string{"D1", "D2"} {
		require.NoError(t, drawerRepo.Create(ctx, &entity.Drawer{
			ID: id, DrawerCode: "DR-" + id, QRCode: "qr-" + id, Capacity: 10, Status: entity.DrawerStatusActive,
		}))
	}
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, batches.Create(ctx, &entity.Batch{
			ID: id, ItemType: "snack", BatchNumber: "L-" + id, Quantity: 50,
			ExpiryDate: clk.now.AddDate(0, 0, 20), QRCode: "qr-batch-" + id, Status: entity.BatchStatusAvailable,
		}))
	}

	registry := drawers.NewUseCase(drawerRepo, layoutRepo, nil)
	tracker := allocation.NewTracker(drawerRepo, statuses, memory.NewTxRunner(s), lock.NewKeyedLocker(), logger.Nop(), 25).
		WithClock(clk.Now)
	book := ledger.NewUseCase(history, nil)
	wf := packing.NewWorkflow(registry, tracker, book, logger.Nop()).WithClock(clk.Now)
	return &env{workflow: wf, statuses: statuses, history: history, clock: clk}
}

func (e *env) twoDrawerJob(t *testing.T) *entity.PackingJob {
	t.Helper()
	job, err := e.workflow.CreateJob(context.Background(), packing.CreateJobInput{
		Flight:          "AV-204",
		StandardSeconds: 120,
		Drawers: []packing.DrawerInput{
			{DrawerID: "D1", Items: []packing.ItemInput{{BatchID: "A", Quantity: 5}}},
			{DrawerID: "D2", Items: []packing.ItemInput{{BatchID: "B", Quantity: 3}, {BatchID: "C", Quantity: 2}}},
		},
	})
	require.NoError(t, err)
	return job
}

func TestCreateJob_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.workflow.CreateJob(ctx, packing.CreateJobInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.workflow.CreateJob(ctx, packing.CreateJobInput{Drawers: []packing.DrawerInput{{DrawerID: "D1"}, {DrawerID: "D1"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.workflow.CreateJob(ctx, packing.CreateJobInput{Drawers: []packing.DrawerInput{{DrawerID: "D9"}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	job := e.twoDrawerJob(t)
	assert.False(t, job.Locked)
	for _, d := range job.Drawers {
		assert.Equal(t, entity.JobDrawerPending, d.State)
	}
	assert.Len(t, e.workflow.ListJobs(ctx), 1)
}

func TestFullFlow_LocksWhenAllCompleted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	job := e.twoDrawerJob(t)

	_, err := e.workflow.ScanDrawer(ctx, job.ID, "D1", "QR-D1")
	require.NoError(t, err)
	// re-escaneo en progreso no cambia nada
	_, err = e.workflow.ScanDrawer(ctx, job.ID, "D1", "qr-D1")
	require.NoError(t, err)

	res, _, err := e.workflow.Assign(ctx, job.ID, "D1", "A", "emp-1", "Ana")
	require.NoError(t, err)
	assert.False(t, res.HasWarning())

	_, _, err = e.workflow.Assign(ctx, job.ID, "D1", "A", "emp-1", "Ana")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	e.clock.Advance(2 * time.Minute)
	got, err := e.workflow.CompleteDrawer(ctx, job.ID, "D1", "emp-1", "Ana")
	require.NoError(t, err)
	assert.False(t, got.Locked)

	_, err = e.workflow.ScanDrawer(ctx, job.ID, "D1", "qr-D1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.workflow.ScanDrawer(ctx, job.ID, "D2", "DR-D2")
	require.NoError(t, err)
	_, _, err = e.workflow.Assign(ctx, job.ID, "D2", "B", "emp-1", "")
	require.NoError(t, err)

	_, err = e.workflow.CompleteDrawer(ctx, job.ID, "D2", "emp-1", "")
	assert.ErrorIs(t, err, domain.ErrChecklistIncomplete)

	_, _, err = e.workflow.Assign(ctx, job.ID, "D2", "C", "emp-1", "")
	require.NoError(t, err)
	e.clock.Advance(30 * time.Second)
	got, err = e.workflow.CompleteDrawer(ctx, job.ID, "D2", "emp-1", "")
	require.NoError(t, err)
	assert.True(t, got.Locked)
	assert.NotNil(t, got.LockedAt)

	// resúmenes: D1 tardó 120s contra 60s estándar (50%), D2 tardó 30s (tope 100%)
	recs, err := e.history.ListAll(ctx, "emp-1")
	require.NoError(t, err)
	var summaries []int
	for _, r := range recs {
		if r.QuantityChanged != nil && *r.QuantityChanged == 0 {
			summaries = append(summaries, r.EfficiencyScore)
		}
	}
	assert.Equal(t, []int{100, 50}, summaries)
}

func TestCompleteDrawer_EfficiencyWithLargeStandardTime(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	job, err := e.workflow.CreateJob(ctx, packing.CreateJobInput{
		StandardSeconds: 4_000_000_000,
		Drawers:         []packing.DrawerInput{{DrawerID: "D1", Items: []packing.ItemInput{{BatchID: "A", Quantity: 5}}}},
	})
	require.NoError(t, err)

	_, err = e.workflow.ScanDrawer(ctx, job.ID, "D1", "qr-D1")
	require.NoError(t, err)
	_, _, err = e.workflow.Assign(ctx, job.ID, "D1", "A", "emp-9", "")
	require.NoError(t, err)
	e.clock.Advance(5_000_000_000 * time.Second)
	got, err := e.workflow.CompleteDrawer(ctx, job.ID, "D1", "emp-9", "")
	require.NoError(t, err)
	assert.True(t, got.Locked)

	recs, err := e.history.ListAll(ctx, "emp-9")
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	// más reciente primero: el resumen del cajón
	assert.Equal(t, 80, recs[0].EfficiencyScore)
}

func TestScanDrawer_Mismatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	job := e.twoDrawerJob(t)

	_, err := e.workflow.ScanDrawer(ctx, job.ID, "D1", "qr-D2")
	assert.ErrorIs(t, err, domain.ErrMismatch)

	_, err = e.workflow.ScanDrawer(ctx, job.ID, "D1", "desconocido")
	assert.ErrorIs(t, err, domain.ErrMismatch)

	got, err := e.workflow.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobDrawerPending, got.Drawer("D1").State)

	_, _, err = e.workflow.Assign(ctx, job.ID, "D1", "A", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.workflow.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssign_RejectsBatchOutsideChecklist(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	job := e.twoDrawerJob(t)
	_, err := e.workflow.ScanDrawer(ctx, job.ID, "D1", "qr-D1")
	require.NoError(t, err)

	_, _, err = e.workflow.Assign(ctx, job.ID, "D1", "B", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLockedJob_RejectsMutationWithoutSideEffects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	job, err := e.workflow.CreateJob(ctx, packing.CreateJobInput{
		Drawers: []packing.DrawerInput{{DrawerID: "D1", Items: []packing.ItemInput{{BatchID: "A", Quantity: 1}}}},
	})
	require.NoError(t, err)
	_, err = e.workflow.ScanDrawer(ctx, job.ID, "D1", "qr-D1")
	require.NoError(t, err)
	_, _, err = e.workflow.Assign(ctx, job.ID, "D1", "A", "", "")
	require.NoError(t, err)
	locked, err := e.workflow.CompleteDrawer(ctx, job.ID, "D1", "", "")
	require.NoError(t, err)
	require.True(t, locked.Locked)

	before, err := e.statuses.List(ctx, 100, 0)
	require.NoError(t, err)

	_, _, err = e.workflow.Assign(ctx, job.ID, "D1", "A", "", "")
	assert.ErrorIs(t, err, domain.ErrJobLocked)
	_, err = e.workflow.ScanDrawer(ctx, job.ID, "D1", "qr-D1")
	assert.ErrorIs(t, err, domain.ErrJobLocked)
	_, err = e.workflow.CompleteDrawer(ctx, job.ID, "D1", "", "")
	assert.ErrorIs(t, err, domain.ErrJobLocked)

	after, err := e.statuses.List(ctx, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestConcurrentCompletion_LocksOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	job, err := e.workflow.CreateJob(ctx, packing.CreateJobInput{
		Drawers: []packing.DrawerInput{{DrawerID: "D1"}, {DrawerID: "D2"}},
	})
	require.NoError(t, err)
	for _, d := range []string{"D1", "D2"} {
		_, err := e.workflow.ScanDrawer(ctx, job.ID, d, "qr-"+d)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	results := make([]*entity.PackingJob, 2)
	for i, d := range []string{"D1", "D2"} {
		wg.Add(1)
		go func(i int, drawerID string) {
			defer wg.Done()
			got, err := e.workflow.CompleteDrawer(ctx, job.ID, drawerID, "", "")
			if assert.NoError(t, err) {
				results[i] = got
			}
		}(i, d)
	}
	wg.Wait()

	lockedCount := 0
	for _, r := range results {
		if r != nil && r.Locked {
			lockedCount++
		}
	}
	assert.Equal(t, 1, lockedCount)

	final, err := e.workflow.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, final.Locked)
	assert.True(t, final.AllCompleted())
}
