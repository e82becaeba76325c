package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/application/catalog"
	"github.com/jhoicas/trolley-api/internal/application/dto"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
)

// DrawerStatusHandler maneja las asignaciones lote↔cajón y sus consultas.
type DrawerStatusHandler struct {
	tracker *allocation.Tracker
	catalog *catalog.UseCase
}

// NewDrawerStatusHandler construye el handler. catalog cierra el lote cuando una depleción lo deja en cero.
func NewDrawerStatusHandler(tracker *allocation.Tracker, catalogUC *catalog.UseCase) *DrawerStatusHandler {
	return &DrawerStatusHandler{tracker: tracker, catalog: catalogUC}
}

// Assign godoc
// @Summary      Cargar un lote en un cajón
// @Description  200 escritura limpia; 207 si el cajón ya tenía otros lotes sin agotar (warning StackingDetected).
// @Tags         drawer-status
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDrawerStatusRequest  true  "Asignación"
// @Success      200   {object}  dto.DrawerStatusResponse
// @Success      207   {object}  dto.DrawerStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/drawer-status [post]
func (h *DrawerStatusHandler) Assign(c *fiber.Ctx) error {
	var in dto.CreateDrawerStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	employeeID, employeeName := employee(c, in.EmployeeID, in.EmployeeName)
	res, err := h.tracker.Assign(c.UserContext(), allocation.AssignInput{
		DrawerID:        in.DrawerID,
		BatchID:         in.BatchID,
		Quantity:        in.QuantityLoaded,
		EmployeeID:      employeeID,
		EmployeeName:    employeeName,
		AccuracyScore:   in.AccuracyScore,
		EfficiencyScore: in.EfficiencyScore,
	})
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if res.HasWarning() {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(toAllocationResponse(res))
}

// List lista registros paginados.
// GET /api/drawer-status?skip=&limit=
func (h *DrawerStatusHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	list, err := h.tracker.List(c.UserContext(), page.Limit, page.Skip)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListResponse(toDrawerStatusResponses(list), page))
}

func (h *DrawerStatusHandler) GetByID(c *fiber.Ctx) error {
	ds, err := h.tracker.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDrawerStatusResponse(ds))
}

// GetByDrawer registro más reciente del cajón. 404 si nunca se cargó.
// GET /api/drawer-status/drawer/:drawerId
func (h *DrawerStatusHandler) GetByDrawer(c *fiber.Ctx) error {
	ds, err := h.tracker.GetByDrawer(c.UserContext(), c.Params("drawerId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDrawerStatusResponse(ds))
}

// Utilization ocupación del cajón.
// GET /api/drawer-status/drawer/:drawerId/utilization
func (h *DrawerStatusHandler) Utilization(c *fiber.Ctx) error {
	u, err := h.tracker.Utilization(c.UserContext(), c.Params("drawerId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toUtilizationResponse(u))
}

// Batches todos los registros del cajón al que pertenece :id.
// GET /api/drawer-status/:id/batches
func (h *DrawerStatusHandler) Batches(c *fiber.Ctx) error {
	list, err := h.tracker.GetBatchesInDrawer(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDrawerStatusResponses(list))
}

// NonDepletedBatches registros no agotados del cajón al que pertenece :id.
// GET /api/drawer-status/:id/non-depleted-batches
func (h *DrawerStatusHandler) NonDepletedBatches(c *fiber.Ctx) error {
	list, err := h.tracker.GetNonDepletedByStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDrawerStatusResponses(list))
}

// DepleteBatch godoc
// @Summary      Agotar un lote en un cajón
// @Description  Idempotente. Si el lote queda en cero se marca depleted en el catálogo.
// @Tags         drawer-status
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de un registro del cajón"
// @Param        body  body  dto.DepleteBatchRequest  true  "Lote a agotar"
// @Success      200   {object}  dto.DepleteBatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/drawer-status/{id}/deplete-batch [post]
func (h *DrawerStatusHandler) DepleteBatch(c *fiber.Ctx) error {
	var in dto.DepleteBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.tracker.Deplete(c.UserContext(), c.Params("id"), in.BatchID)
	if err != nil {
		return respondError(c, err)
	}
	batchStatus := res.BatchStatus
	if res.BatchRemaining == 0 && batchStatus == entity.BatchStatusAvailable {
		b, err := h.catalog.MarkDepleted(c.UserContext(), in.BatchID)
		if err != nil {
			return respondError(c, err)
		}
		batchStatus = b.Status
	}
	return c.JSON(dto.DepleteBatchResponse{
		Record:          toDrawerStatusResponse(res.Status),
		AlreadyDepleted: res.AlreadyDepleted,
		BatchRemaining:  res.BatchRemaining,
		BatchStatus:     batchStatus,
	})
}
