package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/application/catalog"
	"github.com/jhoicas/trolley-api/internal/application/drawers"
	"github.com/jhoicas/trolley-api/internal/application/ledger"
	"github.com/jhoicas/trolley-api/internal/application/packing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName   string
	CatalogUC *catalog.UseCase
	DrawersUC *drawers.UseCase
	Tracker   *allocation.Tracker
	LedgerUC  *ledger.UseCase
	Packing   *packing.Workflow
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// La identidad del operador es opcional: con token, el token manda sobre el body.
	api := app.Group("/api", OptionalAuth(deps.JWTSecret))

	batchHandler := NewBatchHandler(deps.CatalogUC)
	// /items es el nombre que aún usa el cliente móvil.
	for _, prefix := range []string{"/batches", "/items"} {
		batches := api.Group(prefix)
		batches.Post("/", batchHandler.Create)
		batches.Get("/", batchHandler.List)
		batches.Get("/fefo", batchHandler.FEFO)
		batches.Get("/expiring-soon", batchHandler.ExpiringSoon)
		batches.Get("/status/:status", batchHandler.GetByStatus)
		batches.Post("/validate-scan", batchHandler.ValidateScan)
		batches.Post("/validate-return", batchHandler.ValidateReturn)
		batches.Get("/:id", batchHandler.GetByID)
		batches.Post("/:id/deplete", batchHandler.MarkDepleted)
	}

	drawerHandler := NewDrawerHandler(deps.DrawersUC)
	drawersGroup := api.Group("/drawers")
	drawersGroup.Post("/", drawerHandler.Create)
	drawersGroup.Get("/", drawerHandler.List)
	drawersGroup.Get("/qr/:code", drawerHandler.FindByQRCode)
	drawersGroup.Get("/:id", drawerHandler.GetByID)
	drawersGroup.Put("/:id", drawerHandler.Update)
	drawersGroup.Get("/:id/qr-code", drawerHandler.QRCode)
	drawersGroup.Get("/:id/qr-code/image", drawerHandler.QRCodeImage)

	layouts := api.Group("/drawer-layouts")
	layouts.Post("/", drawerHandler.CreateLayout)
	layouts.Get("/", drawerHandler.ListLayouts)
	layouts.Get("/by-drawer/:drawerId", drawerHandler.GetLayoutByDrawer)
	layouts.Get("/:id", drawerHandler.GetLayout)
	layouts.Put("/:id", drawerHandler.UpdateLayout)

	statusHandler := NewDrawerStatusHandler(deps.Tracker, deps.CatalogUC)
	status := api.Group("/drawer-status")
	status.Post("/", statusHandler.Assign)
	status.Get("/", statusHandler.List)
	status.Get("/drawer/:drawerId", statusHandler.GetByDrawer)
	status.Get("/drawer/:drawerId/utilization", statusHandler.Utilization)
	status.Get("/:id", statusHandler.GetByID)
	status.Get("/:id/batches", statusHandler.Batches)
	status.Get("/:id/non-depleted-batches", statusHandler.NonDepletedBatches)
	status.Post("/:id/deplete-batch", statusHandler.DepleteBatch)

	historyHandler := NewRestockHistoryHandler(deps.LedgerUC)
	history := api.Group("/restock-history")
	history.Post("/", historyHandler.Create)
	history.Get("/", historyHandler.List)
	history.Get("/employee/:id", historyHandler.ByEmployee)
	history.Get("/performance/:id", historyHandler.Performance)
	history.Get("/leaderboard", historyHandler.Leaderboard)
	history.Get("/warnings", historyHandler.Warnings)
	history.Get("/export", historyHandler.Export)

	packingHandler := NewPackingHandler(deps.Packing)
	jobs := api.Group("/packing-jobs")
	jobs.Post("/", packingHandler.Create)
	jobs.Get("/", packingHandler.List)
	jobs.Get("/:id", packingHandler.GetByID)
	jobs.Post("/:id/drawers/:drawerId/scan", packingHandler.ScanDrawer)
	jobs.Post("/:id/drawers/:drawerId/assign", packingHandler.Assign)
	jobs.Post("/:id/drawers/:drawerId/complete", packingHandler.CompleteDrawer)

	dashboardHandler := NewDashboardHandler(deps.CatalogUC)
	api.Get("/dashboard/expiry", dashboardHandler.Expiry)
}
