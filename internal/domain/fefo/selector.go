// Package fefo implementa la política First-Expired-First-Out sobre lotes (servicio de dominio puro).
package fefo

import (
	"sort"
	"time"

	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// Clasificación de caducidad usada por el tablero de supervisor.
const (
	ExpiryValid    = "valid"
	ExpiryCritical = "critical"
	ExpiryExpired  = "expired"
)

// AvailableOrderedByExpiry devuelve los lotes disponibles ordenados ascendentemente por caducidad.
// El orden es estable: empates conservan el orden de entrada, por lo que llamadas repetidas
// sobre la misma entrada devuelven la misma secuencia. No modifica el slice recibido.
func AvailableOrderedByExpiry(batches []*entity.Batch) []*entity.Batch {
	out := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b != nil && b.IsAvailable() {
			out = append(out, b)
		}
	}
	sortByExpiry(out)
	return out
}

// ExpiringWithin devuelve los lotes disponibles con now < caducidad <= now+horizonDays, en orden FEFO.
// Los ya vencidos quedan fuera: pertenecen al circuito de desecho, no al de reposición.
func ExpiringWithin(batches []*entity.Batch, now time.Time, horizonDays int) []*entity.Batch {
	limit := now.AddDate(0, 0, horizonDays)
	out := make([]*entity.Batch, 0)
	for _, b := range AvailableOrderedByExpiry(batches) {
		if b.ExpiryDate.After(now) && !b.ExpiryDate.After(limit) {
			out = append(out, b)
		}
	}
	return out
}

// Classify ubica un lote en valid, critical (vence dentro de criticalDays) o expired.
func Classify(b *entity.Batch, now time.Time, criticalDays int) string {
	if b.IsExpired(now) {
		return ExpiryExpired
	}
	if !b.ExpiryDate.After(now.AddDate(0, 0, criticalDays)) {
		return ExpiryCritical
	}
	return ExpiryValid
}

// FirstEligible devuelve el lote disponible y vigente de itemType que vence primero, o nil.
func FirstEligible(batches []*entity.Batch, itemType string, now time.Time) *entity.Batch {
	for _, b := range AvailableOrderedByExpiry(batches) {
		if b.ItemType == itemType && !b.IsExpired(now) && b.Quantity > 0 {
			return b
		}
	}
	return nil
}

func sortByExpiry(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].ExpiryDate.Before(batches[j].ExpiryDate)
	})
}
