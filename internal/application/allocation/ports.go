package allocation

import (
	"context"

	"github.com/jhoicas/trolley-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que el registro de trazabilidad, el ajuste del lote y la entrada del ledger se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		drawerRepo repository.DrawerRepository,
		batchRepo repository.BatchRepository,
		statusRepo repository.DrawerStatusRepository,
		historyRepo repository.RestockHistoryRepository,
	) error) error
}

// DrawerLocker provee la sección crítica por cajón.
// Lock bloquea hasta obtener el cajón o hasta que ctx termine; unlock libera y es seguro llamarlo una vez.
// Si el bloqueo no puede obtenerse devuelve un error que envuelve domain.ErrLockNotObtained.
type DrawerLocker interface {
	Lock(ctx context.Context, drawerID string) (unlock func(), err error)
}
