package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/catalog"
)

// DashboardHandler tablero de caducidad para supervisores.
type DashboardHandler struct {
	uc *catalog.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *catalog.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Expiry agrupa los lotes disponibles en valid, critical y expired.
// GET /api/dashboard/expiry?critical_days=
//
// critical_days ausente usa FEFO_CRITICAL_DAYS.
func (h *DashboardHandler) Expiry(c *fiber.Ctx) error {
	d, err := h.uc.ExpiryDashboard(c.UserContext(), c.QueryInt("critical_days", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toExpiryDashboardResponse(d))
}
