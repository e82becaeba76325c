package fefo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/fefo"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func batch(id, itemType, expiry, status string) *entity.Batch {
	return &entity.Batch{ID: id, ItemType: itemType, Quantity: 10, ExpiryDate: day(expiry), Status: status}
}

func ids(batches []*entity.Batch) []string {
	out := make([]string, 0, len(batches))
	for _, b := range batches {
		out = append(out, b.ID)
	}
	return out
}

// Escenario: 2025-01-10, 2025-01-05, 2025-01-20 disponibles → [01-05, 01-10, 01-20].
func TestAvailableOrderedByExpiry_Escenario(t *testing.T) {
	in := []*entity.Batch{
		batch("A", "snack", "2025-01-10", entity.BatchStatusAvailable),
		batch("B", "snack", "2025-01-05", entity.BatchStatusAvailable),
		batch("C", "snack", "2025-01-20", entity.BatchStatusAvailable),
	}

	out := fefo.AvailableOrderedByExpiry(in)

	assert.Equal(t, []string{"B", "A", "C"}, ids(out))
	assert.Equal(t, []string{"A", "B", "C"}, ids(in), "no debe reordenar la entrada")
}

func TestAvailableOrderedByExpiry_NoDecrecienteYDeterminista(t *testing.T) {
	in := []*entity.Batch{
		batch("1", "snack", "2025-03-01", entity.BatchStatusAvailable),
		batch("2", "juice", "2025-01-01", entity.BatchStatusAvailable),
		batch("3", "snack", "2025-03-01", entity.BatchStatusAvailable),
		batch("4", "snack", "2025-02-01", entity.BatchStatusDepleted),
		batch("5", "wine", "2025-01-01", entity.BatchStatusAvailable),
		batch("6", "snack", "2025-02-15", entity.BatchStatusAvailable),
	}

	first := fefo.AvailableOrderedByExpiry(in)
	second := fefo.AvailableOrderedByExpiry(in)

	require.Len(t, first, 5, "los lotes agotados se excluyen")
	for i := 1; i < len(first); i++ {
		assert.False(t, first[i].ExpiryDate.Before(first[i-1].ExpiryDate), "secuencia no decreciente")
	}
	assert.Equal(t, ids(first), ids(second))
	// Empates por orden de inserción.
	assert.Equal(t, []string{"2", "5", "6", "1", "3"}, ids(first))
}

func TestExpiringWithin_ExcluyeVencidosYFueraDeHorizonte(t *testing.T) {
	now := day("2025-01-10")
	in := []*entity.Batch{
		batch("vencido", "snack", "2025-01-09", entity.BatchStatusAvailable),
		batch("hoy", "snack", "2025-01-10", entity.BatchStatusAvailable),
		batch("limite", "snack", "2025-01-17", entity.BatchStatusAvailable),
		batch("pronto", "snack", "2025-01-12", entity.BatchStatusAvailable),
		batch("lejos", "snack", "2025-02-20", entity.BatchStatusAvailable),
		batch("agotado", "snack", "2025-01-11", entity.BatchStatusDepleted),
	}

	out := fefo.ExpiringWithin(in, now, 7)

	assert.Equal(t, []string{"pronto", "limite"}, ids(out))
}

func TestClassify(t *testing.T) {
	now := day("2025-01-10")
	assert.Equal(t, fefo.ExpiryExpired, fefo.Classify(batch("a", "x", "2025-01-10", entity.BatchStatusAvailable), now, 2))
	assert.Equal(t, fefo.ExpiryCritical, fefo.Classify(batch("b", "x", "2025-01-12", entity.BatchStatusAvailable), now, 2))
	assert.Equal(t, fefo.ExpiryValid, fefo.Classify(batch("c", "x", "2025-01-13", entity.BatchStatusAvailable), now, 2))
}

func TestFirstEligible(t *testing.T) {
	now := day("2025-01-10")
	in := []*entity.Batch{
		batch("snack-tarde", "snack", "2025-01-30", entity.BatchStatusAvailable),
		batch("snack-vencido", "snack", "2025-01-01", entity.BatchStatusAvailable),
		batch("jugo", "juice", "2025-01-11", entity.BatchStatusAvailable),
		batch("snack-pronto", "snack", "2025-01-15", entity.BatchStatusAvailable),
	}

	got := fefo.FirstEligible(in, "snack", now)
	require.NotNil(t, got)
	assert.Equal(t, "snack-pronto", got.ID)
	assert.Nil(t, fefo.FirstEligible(in, "wine", now))
}
