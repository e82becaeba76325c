// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa con STORE_DRIVER=memory (demo, desarrollo) y como fake en las pruebas de casos de uso.
package memory

import (
	"sync"

	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// Store contiene todas las tablas en memoria. Los repositorios son vistas sobre el mismo Store.
// mu protege cada operación individual; txMu serializa las transacciones de TxRunner.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	batches     []entity.Batch
	batchIndex  map[string]int
	drawers     []entity.Drawer
	drawerIndex map[string]int
	layouts     []entity.DrawerLayout
	layoutIndex map[string]int
	statuses    []entity.DrawerStatus
	statusIndex map[string]int
	history     []entity.RestockHistoryRecord
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		batchIndex:  make(map[string]int),
		drawerIndex: make(map[string]int),
		layoutIndex: make(map[string]int),
		statusIndex: make(map[string]int),
	}
}

// Repos devuelve los repositorios sobre este Store.
func (s *Store) Repos() (*BatchRepo, *DrawerRepo, *DrawerLayoutRepo, *DrawerStatusRepo, *RestockHistoryRepo) {
	return NewBatchRepository(s), NewDrawerRepository(s), NewDrawerLayoutRepository(s),
		NewDrawerStatusRepository(s), NewRestockHistoryRepository(s)
}

// page recorta un rango [offset, offset+limit) sobre n elementos.
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
