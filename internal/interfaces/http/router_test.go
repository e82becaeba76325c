package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/application/catalog"
	"github.com/jhoicas/trolley-api/internal/application/drawers"
	"github.com/jhoicas/trolley-api/internal/application/dto"
	"github.com/jhoicas/trolley-api/internal/application/ledger"
	"github.com/jhoicas/trolley-api/internal/application/packing"
	"github.com/jhoicas/trolley-api/internal/domain/entity"
	"github.com/jhoicas/trolley-api/internal/infrastructure/lock"
	"github.com/jhoicas/trolley-api/internal/infrastructure/memory"
	"github.com/jhoicas/trolley-api/internal/infrastructure/qrcode"
	"github.com/jhoicas/trolley-api/internal/infrastructure/report"
	apphttp "github.com/jhoicas/trolley-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/trolley-api/pkg/jwt"
	"github.com/jhoicas/trolley-api/pkg/logger"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

// buildTestApp arma la API completa sobre el almacenamiento en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	batches, drawerRepo, layouts, statuses, history := s.Repos()
	tx := memory.NewTxRunner(s)
	log := logger.Nop()

	catalogUC := catalog.NewUseCase(batches, tx, 30, 2)
	drawersUC := drawers.NewUseCase(drawerRepo, layouts, qrcode.NewRenderer())
	tracker := allocation.NewTracker(drawerRepo, statuses, tx, lock.NewKeyedLocker(), log, 25)
	ledgerUC := ledger.NewUseCase(history, report.NewXLSXRenderer())

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:   "trolley-api-test",
		CatalogUC: catalogUC,
		DrawersUC: drawersUC,
		Tracker:   tracker,
		LedgerUC:  ledgerUC,
		Packing:   packing.NewWorkflow(drawersUC, tracker, ledgerUC, log),
		JWTSecret: testJWTSecret,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createDrawer(t *testing.T, app *fiber.App, code string, capacity int) dto.DrawerResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/drawers", dto.CreateDrawerRequest{DrawerCode: code, Capacity: capacity})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.DrawerResponse](t, resp)
}

func createBatch(t *testing.T, app *fiber.App, number, itemType string, qty int, expiry time.Time) dto.BatchResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/batches", dto.CreateBatchRequest{
		ItemType: itemType, BatchNumber: number, Quantity: qty,
		ExpiryDate: expiry.Format(time.RFC3339), QRCode: "qr-" + number,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.BatchResponse](t, resp)
}

func TestHealth(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestDrawerStatus_CleanThenStacking(t *testing.T) {
	app := buildTestApp(t)
	soon := time.Now().AddDate(0, 0, 10)
	d1 := createDrawer(t, app, "DR-A1", 10)
	a := createBatch(t, app, "L-A", "snack", 20, soon)
	b := createBatch(t, app, "L-B", "snack", 20, soon)

	resp := doJSON(t, app, http.MethodPost, "/api/drawer-status", dto.CreateDrawerStatusRequest{
		DrawerID: d1.ID, BatchID: a.ID, QuantityLoaded: 10, EmployeeID: "emp-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	clean := decode[dto.DrawerStatusResponse](t, resp)
	assert.Nil(t, clean.Warning)
	assert.Equal(t, "full", clean.Status)

	resp = doJSON(t, app, http.MethodPost, "/api/drawer-status", dto.CreateDrawerStatusRequest{
		DrawerID: d1.ID, BatchID: b.ID, QuantityLoaded: 5, EmployeeID: "emp-1",
	})
	require.Equal(t, http.StatusMultiStatus, resp.StatusCode)
	stacked := decode[dto.DrawerStatusResponse](t, resp)
	require.NotNil(t, stacked.Warning)
	assert.Equal(t, allocation.WarningStackingDetected, stacked.Warning.Type)
	require.Len(t, stacked.Warning.ConflictingBatches, 1)
	assert.Equal(t, a.ID, stacked.Warning.ConflictingBatches[0].BatchID)
	assert.Equal(t, b.ID, stacked.BatchID)

	resp = doJSON(t, app, http.MethodGet, "/api/restock-history/warnings", nil)
	warnings := decode[dto.ListResponse[dto.RestockHistoryResponse]](t, resp)
	assert.Len(t, warnings.Data, 1)

	resp = doJSON(t, app, http.MethodGet, "/api/drawer-status/"+stacked.ID+"/non-depleted-batches", nil)
	active := decode[[]dto.DrawerStatusResponse](t, resp)
	assert.Len(t, active, 2)
}

func TestDrawerStatus_NeverLoadedIs404(t *testing.T) {
	app := buildTestApp(t)
	d := createDrawer(t, app, "DR-EMPTY", 5)

	resp := doJSON(t, app, http.MethodGet, "/api/drawer-status/drawer/"+d.ID, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestDrawerStatus_DepleteMarksBatchWhenEmpty(t *testing.T) {
	app := buildTestApp(t)
	d := createDrawer(t, app, "DR-D", 10)
	b := createBatch(t, app, "L-D", "drink", 4, time.Now().AddDate(0, 0, 5))

	resp := doJSON(t, app, http.MethodPost, "/api/drawer-status", dto.CreateDrawerStatusRequest{
		DrawerID: d.ID, BatchID: b.ID, QuantityLoaded: 4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[dto.DrawerStatusResponse](t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/drawer-status/"+rec.ID+"/deplete-batch", dto.DepleteBatchRequest{BatchID: b.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.DepleteBatchResponse](t, resp)
	assert.True(t, out.Record.IsDepleted)
	assert.Equal(t, 0, out.BatchRemaining)
	assert.Equal(t, "depleted", out.BatchStatus)

	resp = doJSON(t, app, http.MethodPost, "/api/drawer-status/"+rec.ID+"/deplete-batch", dto.DepleteBatchRequest{BatchID: b.ID})
	again := decode[dto.DepleteBatchResponse](t, resp)
	assert.True(t, again.AlreadyDepleted)
}

func TestValidation_MissingFieldsIs400(t *testing.T) {
	app := buildTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/drawer-status", map[string]any{"drawer_id": "x"})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestValidateScan_FEFOViolationCarriesRequiredBatch(t *testing.T) {
	app := buildTestApp(t)
	now := time.Now()
	early := createBatch(t, app, "L-05", "sandwich", 10, now.AddDate(0, 0, 5))
	createBatch(t, app, "L-10", "sandwich", 10, now.AddDate(0, 0, 10))

	resp := doJSON(t, app, http.MethodPost, "/api/items/validate-scan", dto.ScanBatchRequest{QRCode: "qr-L-10"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ScanValidationResponse](t, resp)
	assert.Equal(t, catalog.ScanFEFOViolation, body.Code)
	require.NotNil(t, body.RequiredBatch)
	assert.Equal(t, early.ID, body.RequiredBatch.ID)

	resp = doJSON(t, app, http.MethodPost, "/api/batches/validate-scan", dto.ScanBatchRequest{QRCode: "qr-L-05"})
	ok := decode[dto.ScanValidationResponse](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, catalog.ScanFEFOOK, ok.Code)
}

func TestOptionalAuth(t *testing.T) {
	app := buildTestApp(t)
	entry := map[string]any{"action_type": "restock", "accuracy_score": 90}

	t.Run("sin token y sin employee_id es 400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/restock-history", entry)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("token inválido es 401", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/restock-history", entry, "Authorization", "Bearer token.invalido.aqui")
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_TOKEN", body.Code)
	})

	t.Run("el token aporta la identidad", func(t *testing.T) {
		tok, err := pkgjwt.Generate(testJWTSecret, "emp-7", "Ana", "operator", "trolley-test", 60)
		require.NoError(t, err)
		resp := doJSON(t, app, http.MethodPost, "/api/restock-history", entry, "Authorization", "Bearer "+tok)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		rec := decode[dto.RestockHistoryResponse](t, resp)
		assert.Equal(t, "emp-7", rec.EmployeeID)
		assert.Equal(t, "Ana", rec.EmployeeName)
		assert.Equal(t, "packing", rec.ActionType)
		assert.Equal(t, 90, rec.AccuracyScore)
		assert.Equal(t, 100, rec.EfficiencyScore)
	})
}

func TestRestockHistory_RejectsReservedWarningTag(t *testing.T) {
	app := buildTestApp(t)
	entry := map[string]any{"employee_id": "emp-1", "action_type": "packing", "notes": entity.WarningTag + ": cajón falso"}

	resp := doJSON(t, app, http.MethodPost, "/api/restock-history", entry)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)

	resp = doJSON(t, app, http.MethodGet, "/api/restock-history/warnings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	warnings := decode[dto.ListResponse[dto.RestockHistoryResponse]](t, resp)
	assert.Empty(t, warnings.Data)
}

func TestPackingJob_ScanMismatchAndLock(t *testing.T) {
	app := buildTestApp(t)
	d := createDrawer(t, app, "DR-P1", 10)
	other := createDrawer(t, app, "DR-P2", 10)
	b := createBatch(t, app, "L-P", "snack", 10, time.Now().AddDate(0, 0, 10))

	resp := doJSON(t, app, http.MethodPost, "/api/packing-jobs", dto.CreatePackingJobRequest{
		Flight: "AV123", StandardSeconds: 60,
		Drawers: []dto.PackingDrawerRequest{{DrawerID: d.ID, Items: []dto.PackingItemRequest{{BatchID: b.ID, Quantity: 3}}}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	job := decode[dto.PackingJobResponse](t, resp)
	base := "/api/packing-jobs/" + job.JobID + "/drawers/" + d.ID

	resp = doJSON(t, app, http.MethodPost, base+"/scan", dto.ScanDrawerRequest{QRCode: other.QRCode})
	mismatch := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "MISMATCH", mismatch.Code)

	resp = doJSON(t, app, http.MethodPost, base+"/scan", dto.ScanDrawerRequest{QRCode: "dr-p1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, base+"/complete", nil)
	incomplete := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "CHECKLIST_INCOMPLETE", incomplete.Code)

	resp = doJSON(t, app, http.MethodPost, base+"/assign", dto.PackingAssignRequest{BatchID: b.ID, EmployeeID: "emp-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, base+"/complete", dto.CompleteDrawerRequest{EmployeeID: "emp-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decode[dto.PackingJobResponse](t, resp)
	assert.True(t, done.Locked)
	assert.Equal(t, 1, done.CompletedDrawers)

	resp = doJSON(t, app, http.MethodPost, base+"/assign", dto.PackingAssignRequest{BatchID: b.ID})
	locked := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusLocked, resp.StatusCode)
	assert.Equal(t, "JOB_LOCKED", locked.Code)
}

func TestExportLedger(t *testing.T) {
	app := buildTestApp(t)
	createBatch(t, app, "L-X", "snack", 1, time.Now().AddDate(0, 0, 3))

	resp := doJSON(t, app, http.MethodGet, "/api/restock-history/export", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
}

func TestDrawerQRCodeImage(t *testing.T) {
	app := buildTestApp(t)
	d := createDrawer(t, app, "DR-QR", 4)

	resp := doJSON(t, app, http.MethodGet, "/api/drawers/"+d.ID+"/qr-code/image?size=128", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp = doJSON(t, app, http.MethodGet, "/api/drawers/"+d.ID+"/qr-code/image?size=5000", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
