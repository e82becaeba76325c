package dto

import "time"

// CreateDrawerRequest body para POST /api/drawers. QRCode vacío = se genera un UUID.
type CreateDrawerRequest struct {
	DrawerCode string `json:"drawer_code" validate:"required,max=50"`
	QRCode     string `json:"qr_code" validate:"omitempty,max=200"`
	Location   string `json:"location" validate:"max=200"`
	Capacity   int    `json:"capacity" validate:"min=0"`
	Status     string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateDrawerRequest body para PUT /api/drawers/:id. Solo campos editables.
type UpdateDrawerRequest struct {
	Location *string `json:"location" validate:"omitempty,max=200"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=0"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// DrawerResponse salida de un cajón.
type DrawerResponse struct {
	ID         string    `json:"id"`
	DrawerCode string    `json:"drawer_code"`
	QRCode     string    `json:"qr_code"`
	Location   string    `json:"location"`
	Capacity   int       `json:"capacity"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DrawerQRCodeResponse token QR de un cajón y la URL de su imagen.
type DrawerQRCodeResponse struct {
	DrawerID   string `json:"drawer_id"`
	DrawerCode string `json:"drawer_code"`
	QRCode     string `json:"qr_code"`
	ImageURL   string `json:"image_url"`
}

// CreateDrawerLayoutRequest body para POST /api/drawer-layouts. LayoutConfig debe ser JSON válido.
type CreateDrawerLayoutRequest struct {
	DrawerID     string `json:"drawer_id" validate:"required"`
	LayoutConfig string `json:"layout_config" validate:"required"`
}

// UpdateDrawerLayoutRequest body para PUT /api/drawer-layouts/:id.
type UpdateDrawerLayoutRequest struct {
	LayoutConfig string `json:"layout_config" validate:"required"`
}

// DrawerLayoutResponse salida de un layout.
type DrawerLayoutResponse struct {
	ID           string    `json:"id"`
	DrawerID     string    `json:"drawer_id"`
	LayoutConfig string    `json:"layout_config"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
