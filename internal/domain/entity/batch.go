package entity

import "time"

// Estados de un lote.
const (
	BatchStatusAvailable = "available"
	BatchStatusDepleted  = "depleted"
)

// Batch representa un lote (Item) de un producto perecedero con caducidad y cantidad compartidas.
// Nunca se elimina: al agotarse se marca depleted y se conserva el historial.
type Batch struct {
	ID          string
	ItemType    string // categoría libre (snack, bebida, ...)
	BatchNumber string // código de lote legible
	Quantity    int    // cantidad restante
	ExpiryDate  time.Time
	QRCode      string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAvailable indica si el lote puede asignarse a cajones.
func (b *Batch) IsAvailable() bool {
	return b.Status == BatchStatusAvailable
}

// IsExpired indica si el lote ya venció en el instante now.
func (b *Batch) IsExpired(now time.Time) bool {
	return !b.ExpiryDate.After(now)
}
