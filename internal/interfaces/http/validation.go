package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseBody decodifica el body JSON y aplica las reglas `validate` del DTO.
// Si devuelve false ya escribió la respuesta 400.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	return validateRequest(c, out)
}

// validateRequest aplica las reglas `validate` de un DTO ya decodificado.
func validateRequest(c *fiber.Ctx, out any) (bool, error) {
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos de entrada inválidos",
			Details: validationDetails(err),
		})
	}
	return true, nil
}

// parsePage lee skip/limit de la query y los normaliza.
func parsePage(c *fiber.Ctx) (dto.PageRequest, bool, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, false, badRequest(c, "INVALID_QUERY", "skip y limit deben ser enteros")
	}
	if err := validate.Struct(page); err != nil {
		return page, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "paginación inválida",
			Details: validationDetails(err),
		})
	}
	page.Normalize()
	return page, true, nil
}

// validationDetails campo -> regla incumplida.
func validationDetails(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
	}
	return out
}
