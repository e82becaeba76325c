package drawers

// QRRenderer genera la imagen PNG de un token QR para imprimir etiquetas.
type QRRenderer interface {
	PNG(content string, size int) ([]byte, error)
}
