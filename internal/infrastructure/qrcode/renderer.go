// Package qrcode renderiza los tokens QR de los cajones como PNG para imprimir etiquetas.
package qrcode

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/jhoicas/trolley-api/internal/application/drawers"
)

var _ drawers.QRRenderer = (*Renderer)(nil)

// Renderer implementación de drawers.QRRenderer sobre boombuler/barcode.
type Renderer struct {
	level qr.ErrorCorrectionLevel
}

// NewRenderer construye el renderer con corrección de errores media (las etiquetas se ensucian).
func NewRenderer() *Renderer {
	return &Renderer{level: qr.M}
}

// PNG codifica content como QR cuadrado de size píxeles.
func (r *Renderer) PNG(content string, size int) ([]byte, error) {
	code, err := qr.Encode(content, r.level, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("codificar qr: %w", err)
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("escalar qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("png qr: %w", err)
	}
	return buf.Bytes(), nil
}
