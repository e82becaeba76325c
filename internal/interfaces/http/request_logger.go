package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/pkg/logger"
)

// quietNotFoundPrefix consultas donde un 404 es un resultado normal (cajón nunca cargado).
const quietNotFoundPrefix = "/api/drawer-status/drawer/"

// RequestLogger registra método, ruta, estado y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		path := c.Path()

		ev := log.Info()
		switch {
		case status == fiber.StatusNotFound && strings.HasPrefix(path, quietNotFoundPrefix):
			ev = log.Debug()
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición HTTP")
		return nil
	}
}
