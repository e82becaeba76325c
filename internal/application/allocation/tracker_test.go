package allocation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/infrastructure/lock"
	"github.com/jhoicas/trolley-api/internal/infrastructure/memory"
	"github.com/jhoicas/trolley-api/pkg/logger"
)

var baseTime = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	batches  *memory.BatchRepo
	drawers  *memory.DrawerRepo
	statuses *memory.DrawerStatusRepo
	history  *memory.RestockHistoryRepo
	tracker  *allocation.Tracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	batches, drawers, _, statuses, history := s.Repos()
	tracker := allocation.NewTracker(drawers, statuses, memory.NewTxRunner(s), lock.NewKeyedLocker(), logger.Nop(), 25).
		WithClock(func() time.Time { return baseTime })
	return &fixture{batches: batches, drawers: drawers, statuses: statuses, history: history, tracker: tracker}
}

func (f *fixture) drawer(t *testing.T, id string, capacity int) {
	t.Helper()
	require.NoError(t, f.drawers.Create(context.Background(), &entity.Drawer{
		ID: id, DrawerCode: "DR-" + id, QRCode: "qr-" + id, Capacity: capacity, Status: entity.DrawerStatusActive,
	}))
}

func (f *fixture) batch(t *testing.T, id string, qty int) {
	t.Helper()
	require.NoError(t, f.batches.Create(context.Background(), &entity.Batch{
		ID: id, ItemType: "snack", BatchNumber: "L-" + id, Quantity: qty,
		ExpiryDate: baseTime.AddDate(0, 0, 10), QRCode: "qr-batch-" + id, Status: entity.BatchStatusAvailable,
	}))
}

func TestAssign_StackingScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drawer(t, "D1", 10)
	f.batch(t, "A", 20)
	f.batch(t, "B", 20)

	first, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 10, EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.False(t, first.HasWarning())
	assert.Equal(t, entity.FillStatusFull, first.Status.Status)

	second, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "B", Quantity: 5, EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.True(t, second.Created)
	assert.Equal(t, allocation.WarningStackingDetected, second.Warning)
	require.Len(t, second.ConflictingBatches, 1)
	assert.Equal(t, "A", second.ConflictingBatches[0].BatchID)
	assert.Equal(t, "L-A", second.ConflictingBatches[0].BatchNumber)
	assert.Equal(t, entity.FillStatusPartial, second.Status.Status)

	u, err := f.tracker.Utilization(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, 15, u.TotalQuantity)
	assert.Equal(t, 2, u.ActiveBatchCount)
	assert.True(t, u.HasStacking)
	assert.Equal(t, entity.FillStatusFull, u.FillStatus)

	warnings, err := f.history.ListWarnings(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Notes, entity.WarningTag)
	assert.Contains(t, warnings[0].Notes, "L-A")

	all, err := f.history.ListAll(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAssign_SameBatchUpdatesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drawer(t, "D1", 10)
	f.batch(t, "A", 20)

	first, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 4})
	require.NoError(t, err)
	second, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 6})
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.False(t, second.HasWarning())
	assert.Equal(t, first.Status.ID, second.Status.ID)
	assert.Equal(t, 6, second.Status.QuantityLoaded)

	active, err := f.tracker.GetNonDepletedBatches(ctx, "D1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 6, active[0].QuantityLoaded)

	records, err := f.history.ListAll(ctx, entity.SystemEmployeeID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestAssign_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drawer(t, "D1", 10)
	f.batch(t, "A", 5)

	_, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "", BatchID: "A", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D9", BatchID: "A", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "Z", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 6})
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad := 101
	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 1, AccuracyScore: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	b, err := f.batches.GetByID(ctx, "A")
	require.NoError(t, err)
	b.Status = entity.BatchStatusDepleted
	require.NoError(t, f.batches.Update(ctx, b))
	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.tracker.GetByDrawer(ctx, "D1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssign_OverAllocationAcrossDrawers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drawer(t, "D1", 10)
	f.drawer(t, "D2", 10)
	f.batch(t, "A", 10)

	_, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 8})
	require.NoError(t, err)

	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D2", BatchID: "A", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrOverAllocation)

	// la recarga del mismo cajón no cuenta su propia carga previa
	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 10})
	require.NoError(t, err)

	_, err = f.tracker.GetByDrawer(ctx, "D2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeplete_NonDestructiveAndIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drawer(t, "D1", 10)
	f.batch(t, "A", 20)
	f.batch(t, "B", 20)

	a, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 8})
	require.NoError(t, err)
	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "B", Quantity: 2})
	require.NoError(t, err)

	res, err := f.tracker.Deplete(ctx, a.Status.ID, "A")
	require.NoError(t, err)
	assert.False(t, res.AlreadyDepleted)
	assert.True(t, res.Status.IsDepleted)
	assert.Equal(t, entity.FillStatusEmpty, res.Status.Status)
	require.NotNil(t, res.Status.DepletedAt)
	assert.Equal(t, 12, res.BatchRemaining)
	assert.Equal(t, entity.BatchStatusAvailable, res.BatchStatus)

	again, err := f.tracker.Deplete(ctx, a.Status.ID, "A")
	require.NoError(t, err)
	assert.True(t, again.AlreadyDepleted)
	assert.Equal(t, res.Status.ID, again.Status.ID)
	assert.Equal(t, 12, again.BatchRemaining)

	all, err := f.tracker.GetBatchesInDrawer(ctx, a.Status.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := f.tracker.GetNonDepletedByStatus(ctx, a.Status.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "B", active[0].BatchID)

	_, err = f.tracker.Deplete(ctx, a.Status.ID, "Z")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.tracker.Deplete(ctx, "missing", "A")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeplete_ThenReloadIsClean(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drawer(t, "D1", 10)
	f.batch(t, "A", 20)
	f.batch(t, "B", 20)

	a, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 5})
	require.NoError(t, err)
	_, err = f.tracker.Deplete(ctx, a.Status.ID, "A")
	require.NoError(t, err)

	b, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "B", Quantity: 5})
	require.NoError(t, err)
	assert.False(t, b.HasWarning())

	latest, err := f.tracker.GetByDrawer(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, b.Status.ID, latest.ID)
}

func TestAssign_ConcurrentOnEmptyDrawer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drawer(t, "D1", 100)
	ids := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for _, id := range ids {
		f.batch(t, id, 10)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		clean   int
		stacked int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(batchID string) {
			defer wg.Done()
			res, err := f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: batchID, Quantity: 1})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res.HasWarning() {
				stacked++
			} else {
				clean++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, clean)
	assert.Equal(t, len(ids)-1, stacked)

	u, err := f.tracker.Utilization(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, len(ids), u.ActiveBatchCount)
}

func TestUtilization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.drawer(t, "D1", 100)
	f.batch(t, "A", 50)

	u, err := f.tracker.Utilization(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, entity.FillStatusEmpty, u.FillStatus)

	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 20})
	require.NoError(t, err)
	u, err = f.tracker.Utilization(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, entity.FillStatusNeedsRestock, u.FillStatus)
	assert.False(t, u.HasStacking)

	_, err = f.tracker.Assign(ctx, allocation.AssignInput{DrawerID: "D1", BatchID: "A", Quantity: 40})
	require.NoError(t, err)
	u, err = f.tracker.Utilization(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, entity.FillStatusPartial, u.FillStatus)
	assert.Equal(t, 1, u.ActiveBatchCount)

	// un registro no agotado extra del mismo lote también cuenta
	require.NoError(t, f.statuses.Create(ctx, &entity.DrawerStatus{
		ID: "extra", DrawerID: "D1", BatchID: "A", QuantityLoaded: 5, Status: entity.FillStatusPartial,
		CreatedAt: baseTime, UpdatedAt: baseTime,
	}))
	u, err = f.tracker.Utilization(ctx, "D1")
	require.NoError(t, err)
	active, err := f.tracker.GetNonDepletedBatches(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, len(active), u.ActiveBatchCount)
	assert.Equal(t, 2, u.ActiveBatchCount)
	assert.Equal(t, 45, u.TotalQuantity)

	_, err = f.tracker.Utilization(ctx, "D9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
