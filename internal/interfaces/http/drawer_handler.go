package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/drawers"
	"github.com/jhoicas/trolley-api/internal/application/dto"
)

// DrawerHandler maneja las peticiones HTTP del registro de cajones y sus layouts.
type DrawerHandler struct {
	uc *drawers.UseCase
}

// NewDrawerHandler construye el handler.
func NewDrawerHandler(uc *drawers.UseCase) *DrawerHandler {
	return &DrawerHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cajón
// @Tags         drawers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDrawerRequest  true  "Datos del cajón"
// @Success      201   {object}  dto.DrawerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/drawers [post]
func (h *DrawerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDrawerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	d, err := h.uc.Create(c.UserContext(), drawers.CreateInput{
		DrawerCode: in.DrawerCode,
		QRCode:     in.QRCode,
		Location:   in.Location,
		Capacity:   in.Capacity,
		Status:     in.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDrawerResponse(d))
}

// List lista cajones paginados.
// GET /api/drawers?skip=&limit=
func (h *DrawerHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	list, err := h.uc.List(c.UserContext(), page.Limit, page.Skip)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.DrawerResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDrawerResponse(d))
	}
	return c.JSON(dto.NewListResponse(out, page))
}

// GetByID godoc
// @Summary      Obtener cajón por ID
// @Tags         drawers
// @Produce      json
// @Param        id   path  string  true  "ID del cajón"
// @Success      200  {object}  dto.DrawerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drawers/{id} [get]
func (h *DrawerHandler) GetByID(c *fiber.Ctx) error {
	d, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDrawerResponse(d))
}

// Update modifica ubicación, capacidad o estado.
// PUT /api/drawers/:id
func (h *DrawerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDrawerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	d, err := h.uc.Update(c.UserContext(), c.Params("id"), drawers.UpdateInput{
		Location: in.Location,
		Capacity: in.Capacity,
		Status:   in.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDrawerResponse(d))
}

// FindByQRCode godoc
// @Summary      Resolver cajón por código escaneado
// @Description  Prueba qr_code, drawer_code e id; exacto, sin mayúsculas y recortado, en ese orden.
// @Tags         drawers
// @Produce      json
// @Param        code  path  string  true  "Código escaneado"
// @Success      200   {object}  dto.DrawerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/drawers/qr/{code} [get]
func (h *DrawerHandler) FindByQRCode(c *fiber.Ctx) error {
	d, err := h.uc.FindByQRCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDrawerResponse(d))
}

// QRCode token QR del cajón y la URL de su imagen.
// GET /api/drawers/:id/qr-code
func (h *DrawerHandler) QRCode(c *fiber.Ctx) error {
	d, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DrawerQRCodeResponse{
		DrawerID:   d.ID,
		DrawerCode: d.DrawerCode,
		QRCode:     d.QRCode,
		ImageURL:   "/api/drawers/" + d.ID + "/qr-code/image",
	})
}

// QRCodeImage PNG del token QR. ?size= en píxeles.
// GET /api/drawers/:id/qr-code/image
func (h *DrawerHandler) QRCodeImage(c *fiber.Ctx) error {
	png, err := h.uc.QRCodePNG(c.UserContext(), c.Params("id"), c.QueryInt("size", 0))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// CreateLayout registra el layout de un cajón.
// POST /api/drawer-layouts
func (h *DrawerHandler) CreateLayout(c *fiber.Ctx) error {
	var in dto.CreateDrawerLayoutRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	l, err := h.uc.CreateLayout(c.UserContext(), in.DrawerID, in.LayoutConfig)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLayoutResponse(l))
}

// ListLayouts lista layouts paginados.
func (h *DrawerHandler) ListLayouts(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	list, err := h.uc.ListLayouts(c.UserContext(), page.Limit, page.Skip)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.DrawerLayoutResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLayoutResponse(l))
	}
	return c.JSON(dto.NewListResponse(out, page))
}

func (h *DrawerHandler) GetLayout(c *fiber.Ctx) error {
	l, err := h.uc.GetLayout(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLayoutResponse(l))
}

func (h *DrawerHandler) GetLayoutByDrawer(c *fiber.Ctx) error {
	l, err := h.uc.GetLayoutByDrawer(c.UserContext(), c.Params("drawerId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLayoutResponse(l))
}

// UpdateLayout reemplaza layout_config.
// PUT /api/drawer-layouts/:id
func (h *DrawerHandler) UpdateLayout(c *fiber.Ctx) error {
	var in dto.UpdateDrawerLayoutRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	l, err := h.uc.UpdateLayout(c.UserContext(), c.Params("id"), in.LayoutConfig)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLayoutResponse(l))
}
