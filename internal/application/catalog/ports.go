package catalog

import (
	"context"

	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repos del catálogo y del ledger,
// para que el alta (o baja) de un lote y su entrada en el historial se confirmen juntas.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		historyRepo repository.RestockHistoryRepository,
	) error) error
}
