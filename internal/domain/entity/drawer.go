package entity

import "time"

// Estados administrativos de un cajón.
const (
	DrawerStatusActive   = "active"
	DrawerStatusInactive = "inactive"
)

// Drawer representa un cajón físico de un carrito de servicio.
// QRCode es el token UUID impreso en la etiqueta; es distinto de DrawerCode (etiqueta legible, ej. DR-A1).
type Drawer struct {
	ID         string
	DrawerCode string
	QRCode     string
	Location   string
	Capacity   int
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DrawerLayout geometría de slots de un cajón (solo informativa; el JSON no se interpreta).
type DrawerLayout struct {
	ID           string
	DrawerID     string
	LayoutConfig string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
