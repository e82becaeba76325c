package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/catalog"
	"github.com/jhoicas/trolley-api/internal/application/dto"
	"github.com/jhoicas/trolley-api/internal/domain"
)

// BatchHandler maneja las peticiones HTTP del catálogo de lotes (/batches y su alias /items).
type BatchHandler struct {
	uc *catalog.UseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *catalog.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// parseExpiry acepta RFC3339 o una fecha simple (medianoche UTC).
func parseExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expiry_date debe ser RFC3339 o AAAA-MM-DD", domain.ErrValidation)
	}
	return t, nil
}

// Create godoc
// @Summary      Registrar lote
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "Datos del lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	expiry, err := parseExpiry(in.ExpiryDate)
	if err != nil {
		return respondError(c, err)
	}
	employeeID, employeeName := employee(c, in.EmployeeID, in.EmployeeName)
	b, err := h.uc.Create(c.UserContext(), catalog.CreateInput{
		ItemType:     in.ItemType,
		BatchNumber:  in.BatchNumber,
		Quantity:     in.Quantity,
		ExpiryDate:   expiry,
		QRCode:       in.QRCode,
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(b))
}

// List godoc
// @Summary      Listar lotes
// @Tags         batches
// @Produce      json
// @Param        status  query  string  false  "available|depleted"
// @Param        skip    query  int     false  "Desplazamiento"
// @Param        limit   query  int     false  "Límite"  default(100)
// @Success      200     {object}  dto.ListResponse[dto.BatchResponse]
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	if status := c.Query("status"); status != "" {
		list, err := h.uc.GetByStatus(c.UserContext(), status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.NewListResponse(toBatchResponses(paginate(list, page)), page))
	}
	list, err := h.uc.List(c.UserContext(), page.Limit, page.Skip)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewListResponse(toBatchResponses(list), page))
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         batches
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	b, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBatchResponse(b))
}

// GetByStatus lotes en un estado, sin paginar.
// GET /api/batches/status/:status
func (h *BatchHandler) GetByStatus(c *fiber.Ctx) error {
	list, err := h.uc.GetByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBatchResponses(list))
}

// FEFO lotes disponibles en orden de vencimiento (el primero es el que debe usarse).
// GET /api/batches/fefo
func (h *BatchHandler) FEFO(c *fiber.Ctx) error {
	list, err := h.uc.AvailableFEFO(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBatchResponses(list))
}

// ExpiringSoon lotes disponibles que vencen dentro de ?days= (por defecto el de configuración).
func (h *BatchHandler) ExpiringSoon(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	list, err := h.uc.ExpiringSoon(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBatchResponses(list))
}

// ValidateScan godoc
// @Summary      Validar lote escaneado contra FEFO
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanBatchRequest  true  "QR escaneado"
// @Success      200   {object}  dto.ScanValidationResponse
// @Failure      409   {object}  dto.ScanValidationResponse
// @Failure      422   {object}  dto.ScanValidationResponse
// @Router       /api/batches/validate-scan [post]
func (h *BatchHandler) ValidateScan(c *fiber.Ctx) error {
	var in dto.ScanBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	b, err := h.uc.ValidateScan(c.UserContext(), in.QRCode)
	if err != nil {
		if errors.Is(err, domain.ErrExpiredBatch) && b != nil {
			resp := toBatchResponse(b)
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ScanValidationResponse{
				Code:    catalog.ScanExpired,
				Message: err.Error(),
				Batch:   &resp,
			})
		}
		return respondError(c, err)
	}
	resp := toBatchResponse(b)
	return c.JSON(dto.ScanValidationResponse{
		Code:    catalog.ScanFEFOOK,
		Message: "lote correcto según FEFO",
		Batch:   &resp,
	})
}

// ValidateReturn procesa un lote devuelto: vencido se desecha, vigente vuelve a bodega.
// POST /api/batches/validate-return
func (h *BatchHandler) ValidateReturn(c *fiber.Ctx) error {
	var in dto.ScanBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	employeeID, employeeName := employee(c, in.EmployeeID, in.EmployeeName)
	res, err := h.uc.ValidateReturn(c.UserContext(), in.QRCode, employeeID, employeeName)
	if err != nil {
		return respondError(c, err)
	}
	msg := "lote vigente: devolver a bodega"
	if res.Action == catalog.ActionDiscard {
		msg = "lote vencido: desechar"
	}
	resp := toBatchResponse(res.Batch)
	return c.JSON(dto.ReturnValidationResponse{
		Code:    catalog.ReturnOK,
		Action:  res.Action,
		Message: msg,
		Batch:   &resp,
	})
}

// MarkDepleted marca el lote como agotado (idempotente).
// POST /api/batches/:id/deplete
func (h *BatchHandler) MarkDepleted(c *fiber.Ctx) error {
	b, err := h.uc.MarkDepleted(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBatchResponse(b))
}

// paginate aplica skip/limit a un listado completo.
func paginate[T any](list []T, page dto.PageRequest) []T {
	if page.Skip >= len(list) {
		return nil
	}
	end := page.Skip + page.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[page.Skip:end]
}
