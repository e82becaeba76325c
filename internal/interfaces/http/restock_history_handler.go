package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/dto"
	"github.com/jhoicas/trolley-api/internal/application/ledger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RestockHistoryHandler maneja el ledger de acciones de operadores.
type RestockHistoryHandler struct {
	uc *ledger.UseCase
}

// NewRestockHistoryHandler construye el handler.
func NewRestockHistoryHandler(uc *ledger.UseCase) *RestockHistoryHandler {
	return &RestockHistoryHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar acción de un operador
// @Description  item_id y quantity se aceptan como alias de batch_id y quantity_changed. restock equivale a packing.
// @Tags         restock-history
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRestockHistoryRequest  true  "Entrada del ledger"
// @Success      201   {object}  dto.RestockHistoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/restock-history [post]
func (h *RestockHistoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRestockHistoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.EmployeeID, in.EmployeeName = employee(c, in.EmployeeID, in.EmployeeName)
	in.ActionType = strings.ToLower(strings.TrimSpace(in.ActionType))
	if ok, err := validateRequest(c, &in); !ok {
		return err
	}
	batchID := in.BatchID
	if batchID == nil {
		batchID = in.ItemID
	}
	qty := in.QuantityChanged
	if qty == nil {
		qty = in.Quantity
	}
	rec, err := h.uc.Append(c.UserContext(), ledger.AppendInput{
		EmployeeID:      in.EmployeeID,
		EmployeeName:    in.EmployeeName,
		ActionType:      in.ActionType,
		DrawerID:        in.DrawerID,
		BatchID:         batchID,
		QuantityChanged: qty,
		AccuracyScore:   in.AccuracyScore,
		EfficiencyScore: in.EfficiencyScore,
		Notes:           in.Notes,
		CompletionTime:  in.CompletionTime,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toHistoryResponse(rec))
}

// List ledger completo, más recientes primero.
// GET /api/restock-history?skip=&limit=
func (h *RestockHistoryHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	list, err := h.uc.List(c.UserContext(), page.Limit, page.Skip)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListResponse(toHistoryResponses(list), page))
}

// ByEmployee entradas de un empleado.
// GET /api/restock-history/employee/:id
func (h *RestockHistoryHandler) ByEmployee(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	list, err := h.uc.ByEmployee(c.UserContext(), c.Params("id"), page.Limit, page.Skip)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListResponse(toHistoryResponses(list), page))
}

// Warnings entradas con apilamiento detectado.
// GET /api/restock-history/warnings?skip=&limit=
func (h *RestockHistoryHandler) Warnings(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	list, err := h.uc.Warnings(c.UserContext(), page.Limit, page.Skip)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListResponse(toHistoryResponses(list), page))
}

// Performance godoc
// @Summary      Desempeño de un empleado
// @Tags         restock-history
// @Produce      json
// @Param        id   path  string  true  "employee_id"
// @Success      200  {object}  dto.EmployeePerformanceResponse
// @Router       /api/restock-history/performance/{id} [get]
func (h *RestockHistoryHandler) Performance(c *fiber.Ctx) error {
	p, err := h.uc.Performance(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.EmployeePerformanceResponse{
		EmployeeID:         p.EmployeeID,
		AvgAccuracyScore:   p.AvgAccuracy,
		AvgEfficiencyScore: p.AvgEfficiency,
		TotalActions:       p.TotalActions,
	})
}

// Leaderboard godoc
// @Summary      Ranking de empleados
// @Tags         restock-history
// @Produce      json
// @Param        limit   query  int     false  "Cantidad"  default(10)
// @Param        metric  query  string  false  "efficiency|accuracy|composite"
// @Success      200     {object}  dto.LeaderboardResponse
// @Router       /api/restock-history/leaderboard [get]
func (h *RestockHistoryHandler) Leaderboard(c *fiber.Ctx) error {
	metric := strings.ToLower(strings.TrimSpace(c.Query("metric")))
	if metric == "" {
		metric = ledger.MetricEfficiency
	}
	entries, err := h.uc.Leaderboard(c.UserContext(), c.QueryInt("limit", 0), metric)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLeaderboardResponse(metric, entries))
}

// Export descarga el ledger como planilla (?employee_id= filtra).
// GET /api/restock-history/export
func (h *RestockHistoryHandler) Export(c *fiber.Ctx) error {
	data, err := h.uc.ExportXLSX(c.UserContext(), c.Query("employee_id"))
	if err != nil {
		return respondError(c, err)
	}
	name := "historial-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
