package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/dto"
	"github.com/jhoicas/trolley-api/internal/application/packing"
)

// PackingHandler maneja el flujo de empaque guiado.
type PackingHandler struct {
	wf *packing.Workflow
}

// NewPackingHandler construye el handler.
func NewPackingHandler(wf *packing.Workflow) *PackingHandler {
	return &PackingHandler{wf: wf}
}

// Create godoc
// @Summary      Crear trabajo de empaque
// @Tags         packing-jobs
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePackingJobRequest  true  "Cajones y checklist"
// @Success      201   {object}  dto.PackingJobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/packing-jobs [post]
func (h *PackingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePackingJobRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	drawers := make([]packing.DrawerInput, 0, len(in.Drawers))
	for _, d := range in.Drawers {
		items := make([]packing.ItemInput, 0, len(d.Items))
		for _, it := range d.Items {
			items = append(items, packing.ItemInput{BatchID: it.BatchID, Quantity: it.Quantity})
		}
		drawers = append(drawers, packing.DrawerInput{DrawerID: d.DrawerID, Items: items})
	}
	job, err := h.wf.CreateJob(c.UserContext(), packing.CreateJobInput{
		Flight:          in.Flight,
		StandardSeconds: in.StandardSeconds,
		Drawers:         drawers,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPackingJobResponse(job))
}

func (h *PackingHandler) List(c *fiber.Ctx) error {
	jobs := h.wf.ListJobs(c.UserContext())
	out := make([]dto.PackingJobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toPackingJobResponse(j))
	}
	return c.JSON(out)
}

func (h *PackingHandler) GetByID(c *fiber.Ctx) error {
	job, err := h.wf.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPackingJobResponse(job))
}

// ScanDrawer valida el QR del cajón seleccionado; 409 MISMATCH si no coincide.
// POST /api/packing-jobs/:id/drawers/:drawerId/scan
func (h *PackingHandler) ScanDrawer(c *fiber.Ctx) error {
	var in dto.ScanDrawerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	job, err := h.wf.ScanDrawer(c.UserContext(), c.Params("id"), c.Params("drawerId"), in.QRCode)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPackingJobResponse(job))
}

// Assign confirma un item del checklist. 207 si la carga produjo apilamiento; 423 si el trabajo está bloqueado.
// POST /api/packing-jobs/:id/drawers/:drawerId/assign
func (h *PackingHandler) Assign(c *fiber.Ctx) error {
	var in dto.PackingAssignRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	employeeID, employeeName := employee(c, in.EmployeeID, in.EmployeeName)
	res, job, err := h.wf.Assign(c.UserContext(), c.Params("id"), c.Params("drawerId"), in.BatchID, employeeID, employeeName)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if res.HasWarning() {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(dto.PackingAssignResponse{
		DrawerStatus: toAllocationResponse(res),
		Job:          toPackingJobResponse(job),
	})
}

// CompleteDrawer cierra el cajón; al cerrar el último el trabajo queda bloqueado.
// POST /api/packing-jobs/:id/drawers/:drawerId/complete
func (h *PackingHandler) CompleteDrawer(c *fiber.Ctx) error {
	var in dto.CompleteDrawerRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	employeeID, employeeName := employee(c, in.EmployeeID, in.EmployeeName)
	job, err := h.wf.CompleteDrawer(c.UserContext(), c.Params("id"), c.Params("drawerId"), employeeID, employeeName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPackingJobResponse(job))
}
