package dto

// Límites de paginación (skip/limit como los envía el cliente móvil).
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// PageRequest paginación para listados.
type PageRequest struct {
	Skip  int `query:"skip" validate:"min=0"`
	Limit int `query:"limit" validate:"min=0,max=1000"`
}

// Normalize aplica valores por defecto y recorta los límites.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}

// ListResponse envoltura de listados; el cliente desenvuelve "data".
type ListResponse[T any] struct {
	Data []T           `json:"data"`
	Page PageResponse `json:"page"`
}

// NewListResponse construye la envoltura garantizando data = [] en vez de null.
func NewListResponse[T any](items []T, page PageRequest) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Data: items,
		Page: PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
