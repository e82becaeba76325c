package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/catalog"
	"github.com/jhoicas/trolley-api/internal/application/dto"
	"github.com/jhoicas/trolley-api/internal/domain"
)

// errorMapping código HTTP y código de error para cada sentinela de dominio.
type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: FEFOViolationError y ErrExpiredBatch se evalúan antes que ErrValidation.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrFEFOViolation, fiber.StatusConflict, catalog.ScanFEFOViolation},
	{domain.ErrExpiredBatch, fiber.StatusUnprocessableEntity, catalog.ScanExpired},
	{domain.ErrOverAllocation, fiber.StatusUnprocessableEntity, "OVER_ALLOCATION"},
	{domain.ErrChecklistIncomplete, fiber.StatusUnprocessableEntity, "CHECKLIST_INCOMPLETE"},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrMismatch, fiber.StatusConflict, "MISMATCH"},
	{domain.ErrAmbiguous, fiber.StatusConflict, "AMBIGUOUS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrJobLocked, fiber.StatusLocked, "JOB_LOCKED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrLockNotObtained, fiber.StatusServiceUnavailable, "LOCK_BUSY"},
}

// respondError traduce un error de los casos de uso a la respuesta HTTP.
// Lo que no es un error de dominio se responde 500 INTERNAL.
func respondError(c *fiber.Ctx, err error) error {
	var fefo *catalog.FEFOViolationError
	if errors.As(err, &fefo) {
		body := dto.ScanValidationResponse{
			Code:    catalog.ScanFEFOViolation,
			Message: err.Error(),
		}
		if fefo.Scanned != nil {
			b := toBatchResponse(fefo.Scanned)
			body.Batch = &b
		}
		if fefo.Required != nil {
			b := toBatchResponse(fefo.Required)
			body.RequiredBatch = &b
		}
		return c.Status(fiber.StatusConflict).JSON(body)
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: message})
}
