package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/domain/fefo"
)

// ExpiryBucket cantidad disponible en un estado de caducidad.
type ExpiryBucket struct {
	State    string
	Quantity int
	Batches  int
}

// ExpiryDashboard resumen de caducidad de los lotes disponibles.
type ExpiryDashboard struct {
	CriticalDays int
	Buckets      []ExpiryBucket // siempre valid, critical, expired en ese orden
	Critical     []*entity.Batch
	Expired      []*entity.Batch
}

// ExpiryDashboard agrupa los lotes disponibles en valid, critical y expired (0 = ventana por defecto).
func (uc *UseCase) ExpiryDashboard(ctx context.Context, criticalDays int) (*ExpiryDashboard, error) {
	if criticalDays < 0 {
		return nil, fmt.Errorf("%w: critical_days no puede ser negativo", domain.ErrValidation)
	}
	if criticalDays == 0 {
		criticalDays = uc.criticalDays
	}
	all, err := uc.batchRepo.ListByStatus(ctx, entity.BatchStatusAvailable)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	order := []string{fefo.ExpiryValid, fefo.ExpiryCritical, fefo.ExpiryExpired}
	buckets := make(map[string]*ExpiryBucket, len(order))
	for _, s := range order {
		buckets[s] = &ExpiryBucket{State: s}
	}
	d := &ExpiryDashboard{CriticalDays: criticalDays, Critical: []*entity.Batch{}, Expired: []*entity.Batch{}}
	for _, b := range fefo.AvailableOrderedByExpiry(all) {
		state := fefo.Classify(b, now, criticalDays)
		buckets[state].Quantity += b.Quantity
		buckets[state].Batches++
		switch state {
		case fefo.ExpiryCritical:
			d.Critical = append(d.Critical, b)
		case fefo.ExpiryExpired:
			d.Expired = append(d.Expired, b)
		}
	}
	for _, s := range order {
		d.Buckets = append(d.Buckets, *buckets[s])
	}
	return d, nil
}
