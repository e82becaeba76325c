package packing

import (
	"context"

	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/application/ledger"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// DrawerResolver resuelve cajones por ID y por código escaneado.
type DrawerResolver interface {
	GetByID(ctx context.Context, id string) (*entity.Drawer, error)
	FindByQRCode(ctx context.Context, code string) (*entity.Drawer, error)
}

// Allocator asigna lotes a cajones.
type Allocator interface {
	Assign(ctx context.Context, in allocation.AssignInput) (*allocation.AllocationResult, error)
}

// Ledger registra las entradas de resumen de cada cajón completado.
type Ledger interface {
	Append(ctx context.Context, in ledger.AppendInput) (*entity.RestockHistoryRecord, error)
}
