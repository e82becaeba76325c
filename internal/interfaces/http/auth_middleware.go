package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/dto"
	"github.com/jhoicas/trolley-api/pkg/jwt"
)

// Locals keys de la identidad del operador en Fiber.
const (
	LocalEmployeeID   = "employee_id"
	LocalEmployeeName = "employee_name"
	LocalRole         = "role"
)

// OptionalAuth valida el Bearer Token JWT solo si viene el header Authorization.
// Sin header la petición sigue anónima y la identidad sale del body; con un token inválido responde 401.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalEmployeeID, claims.EmployeeID)
		c.Locals(LocalEmployeeName, claims.EmployeeName)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetEmployeeID devuelve el employee_id del token (vacío si la petición es anónima).
func GetEmployeeID(c *fiber.Ctx) string {
	return localString(c, LocalEmployeeID)
}

// GetEmployeeName devuelve el nombre del operador del token.
func GetEmployeeName(c *fiber.Ctx) string {
	return localString(c, LocalEmployeeName)
}

// employee resuelve la identidad del operador: el token manda sobre el body.
func employee(c *fiber.Ctx, bodyID, bodyName string) (string, string) {
	id := GetEmployeeID(c)
	if id == "" {
		return bodyID, bodyName
	}
	name := GetEmployeeName(c)
	if name == "" {
		name = bodyName
	}
	return id, name
}
