package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los adaptadores y casos de uso los envuelven con fmt.Errorf("%w: ...") para dar detalle;
// la capa HTTP los compara con errors.Is.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrValidation          = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrOverAllocation      = errors.New("cantidad asignada excede la cantidad disponible del lote")
	ErrMismatch            = errors.New("el código escaneado no corresponde al cajón seleccionado")
	ErrAmbiguous           = errors.New("el código escaneado coincide con más de un cajón")
	ErrJobLocked           = errors.New("el trabajo de empaque está bloqueado")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrChecklistIncomplete = errors.New("faltan items por confirmar en el cajón")
	ErrFEFOViolation       = errors.New("existe un lote que vence antes y debe usarse primero")
	ErrExpiredBatch        = errors.New("lote vencido")
	ErrLockNotObtained     = errors.New("no se pudo obtener el bloqueo del cajón")
)
