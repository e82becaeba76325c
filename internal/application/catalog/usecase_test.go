package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trolley-api/internal/application/catalog"
	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/fefo"
	"github.com/jhoicas/trolley-api/internal/infrastructure/memory"
)

var today = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func newCatalog(t *testing.T) (*catalog.UseCase, *memory.RestockHistoryRepo) {
	t.Helper()
	s := memory.NewStore()
	batches, _, _, _, history := s.Repos()
	uc := catalog.NewUseCase(batches, memory.NewTxRunner(s), 30, 2).
		WithClock(func() time.Time { return today })
	return uc, history
}

func create(t *testing.T, uc *catalog.UseCase, number, itemType string, expiry time.Time) *entity.Batch {
	t.Helper()
	b, err := uc.Create(context.Background(), catalog.CreateInput{
		ItemType: itemType, BatchNumber: number, Quantity: 10, ExpiryDate: expiry, QRCode: "qr-" + number,
	})
	require.NoError(t, err)
	return b
}

func TestCreate(t *testing.T) {
	uc, history := newCatalog(t)
	ctx := context.Background()

	b, err := uc.Create(ctx, catalog.CreateInput{
		ItemType: "snack", BatchNumber: "L-001", Quantity: 24, ExpiryDate: day(20), QRCode: "qr-1",
		EmployeeID: "emp-1", EmployeeName: "Ana",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, entity.BatchStatusAvailable, b.Status)

	recs, err := history.ListAll(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, entity.ActionRegistration, recs[0].ActionType)
	assert.Equal(t, b.ID, *recs[0].BatchID)

	_, err = uc.Create(ctx, catalog.CreateInput{
		ItemType: "snack", BatchNumber: "L-002", Quantity: 1, ExpiryDate: day(20), QRCode: "qr-1",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, catalog.CreateInput{ItemType: "snack", BatchNumber: "L-003", Quantity: 0, ExpiryDate: day(20), QRCode: "qr-3"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Create(ctx, catalog.CreateInput{ItemType: "snack", BatchNumber: "L-004", Quantity: 1, QRCode: "qr-4"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFEFOScenario(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()

	late := create(t, uc, "L-20", "bebida", day(20))
	early := create(t, uc, "L-05", "bebida", day(5))
	mid := create(t, uc, "L-10", "bebida", day(10))

	ordered, err := uc.AvailableFEFO(ctx)
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, []string{early.ID, mid.ID, late.ID}, []string{ordered[0].ID, ordered[1].ID, ordered[2].ID})

	_, err = uc.ValidateScan(ctx, "qr-L-10")
	var violation *catalog.FEFOViolationError
	require.ErrorAs(t, err, &violation)
	assert.ErrorIs(t, err, domain.ErrFEFOViolation)
	assert.Equal(t, early.ID, violation.Required.ID)

	ok, err := uc.ValidateScan(ctx, "qr-L-05")
	require.NoError(t, err)
	assert.Equal(t, early.ID, ok.ID)

	_, err = uc.MarkDepleted(ctx, early.ID)
	require.NoError(t, err)
	_, err = uc.ValidateScan(ctx, "qr-L-10")
	assert.NoError(t, err)

	soon, err := uc.ExpiringSoon(ctx, 10)
	require.NoError(t, err)
	require.Len(t, soon, 1)
	assert.Equal(t, mid.ID, soon[0].ID)

	soon, err = uc.ExpiringSoon(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, soon, 2)
}

func TestValidateScan_ExpiredAndUnknown(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()
	create(t, uc, "OLD", "snack", today.Add(-time.Hour))

	_, err := uc.ValidateScan(ctx, "qr-OLD")
	assert.ErrorIs(t, err, domain.ErrExpiredBatch)

	_, err = uc.ValidateScan(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ValidateScan(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMarkDepleted_Idempotent(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()
	b := create(t, uc, "L-1", "snack", day(10))

	first, err := uc.MarkDepleted(ctx, b.ID)
	require.NoError(t, err)
	second, err := uc.MarkDepleted(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusDepleted, first.Status)
	assert.Equal(t, first, second)

	depleted, err := uc.GetByStatus(ctx, entity.BatchStatusDepleted)
	require.NoError(t, err)
	assert.Len(t, depleted, 1)

	_, err = uc.GetByStatus(ctx, "otro")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.MarkDepleted(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidateReturn(t *testing.T) {
	uc, history := newCatalog(t)
	ctx := context.Background()
	create(t, uc, "OK", "snack", day(15))
	old := create(t, uc, "OLD", "snack", today.Add(-time.Minute))

	res, err := uc.ValidateReturn(ctx, "qr-OK", "emp-2", "")
	require.NoError(t, err)
	assert.Equal(t, catalog.ActionReturnToWarehouse, res.Action)

	res, err = uc.ValidateReturn(ctx, "qr-OLD", "emp-2", "")
	require.NoError(t, err)
	assert.Equal(t, catalog.ActionDiscard, res.Action)

	stored, err := uc.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusDepleted, stored.Status)

	recs, err := history.ListAll(ctx, "emp-2")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, entity.ActionRemoval, recs[0].ActionType)
}

func TestExpiryDashboard(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()
	create(t, uc, "EXP", "snack", today.Add(-time.Hour))
	crit := create(t, uc, "CRIT", "snack", day(2))
	create(t, uc, "OK1", "snack", day(10))
	create(t, uc, "OK2", "snack", day(20))

	d, err := uc.ExpiryDashboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, d.CriticalDays)
	require.Len(t, d.Buckets, 3)
	assert.Equal(t, catalog.ExpiryBucket{State: fefo.ExpiryValid, Quantity: 20, Batches: 2}, d.Buckets[0])
	assert.Equal(t, catalog.ExpiryBucket{State: fefo.ExpiryCritical, Quantity: 10, Batches: 1}, d.Buckets[1])
	assert.Equal(t, catalog.ExpiryBucket{State: fefo.ExpiryExpired, Quantity: 10, Batches: 1}, d.Buckets[2])
	require.Len(t, d.Critical, 1)
	assert.Equal(t, crit.ID, d.Critical[0].ID)
	assert.Len(t, d.Expired, 1)
}
