package memory

import (
	"context"

	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/application/catalog"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

var (
	_ allocation.TxRunner = (*TxRunner)(nil)
	_ catalog.TxRunner    = (*TxRunner)(nil)
)

// TxRunner serializa las transacciones sobre el Store. No hay rollback: los casos de uso
// validan todo antes de escribir, así que un error a mitad de fn solo ocurre antes de la primera escritura.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner en memoria.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con los repos del rastreador de asignaciones.
func (r *TxRunner) Run(ctx context.Context, fn func(
	drawerRepo repository.DrawerRepository,
	batchRepo repository.BatchRepository,
	statusRepo repository.DrawerStatusRepository,
	historyRepo repository.RestockHistoryRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	return fn(NewDrawerRepository(r.s), NewBatchRepository(r.s), NewDrawerStatusRepository(r.s), NewRestockHistoryRepository(r.s))
}

// RunCatalog ejecuta fn con los repos del catálogo.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	historyRepo repository.RestockHistoryRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	return fn(NewBatchRepository(r.s), NewRestockHistoryRepository(r.s))
}
