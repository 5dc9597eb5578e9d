package routes

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetops/database/dbtest"
	"fleetops/models"
	"fleetops/ocr"
	"fleetops/repositories"
	"fleetops/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const prefix = "/api/v1"

type stubEngine struct {
	text string
	conf float64
	err  error
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Recognize(context.Context, []byte) (ocr.Result, error) {
	return ocr.Result{Text: s.text, Confidence: s.conf}, s.err
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	engine *stubEngine
}

func newTestEnv(t *testing.T, mutate ...func(*Dependencies)) *testEnv {
	t.Helper()
	db := dbtest.Open(t)
	log := zap.NewNop()
	engine := &stubEngine{}
	deps := Dependencies{
		DB:        db,
		Log:       log,
		Ocr:       services.NewOcrService(engine, time.Second, log),
		Users:     services.NewUserService(repositories.NewUserRepository(db), "test-secret", time.Hour),
		Prefix:    prefix,
		JWTSecret: "test-secret",
		QRBaseURL: "fleetops://trips/",
	}
	for _, m := range mutate {
		m(&deps)
	}
	return &testEnv{app: NewApp(deps), db: db, engine: engine}
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	default:
		raw, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, prefix+path, bytes.NewReader(raw))
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

func fileRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, prefix+path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func (e *testEnv) raw(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) do(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp := e.raw(t, req)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func fieldErrors(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok, "details missing: %v", body)
	fields, ok := details["fieldErrors"].(map[string]interface{})
	require.True(t, ok, "fieldErrors missing: %v", details)
	return fields
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, jsonRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, jsonRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "Cannot GET")
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)
	resp := env.raw(t, jsonRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestDrivers(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(http.MethodPost, "/drivers", map[string]interface{}{"name": ""}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Contains(t, fieldErrors(t, body), "name")

	status, body = env.do(t, jsonRequest(http.MethodPost, "/drivers", "{not json"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["details"].(map[string]interface{})["formErrors"])

	status, body = env.do(t, jsonRequest(http.MethodPost, "/drivers", map[string]interface{}{"name": "  Ana Ruiz "}))
	require.Equal(t, http.StatusCreated, status)
	driver := body["driver"].(map[string]interface{})
	assert.Equal(t, "Ana Ruiz", driver["name"])
	assert.Equal(t, true, driver["active"])
	assert.Nil(t, driver["homeBase"])
	id := int(driver["id"].(float64))

	status, body = env.do(t, jsonRequest(http.MethodPut, fmt.Sprintf("/drivers/%d", id),
		map[string]interface{}{"name": "Ana Ruiz", "active": false}))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"ok": true}, body)

	// omitting active keeps the stored value
	status, _ = env.do(t, jsonRequest(http.MethodPut, fmt.Sprintf("/drivers/%d", id),
		map[string]interface{}{"name": "Ana R.", "homeBase": "Laredo"}))
	require.Equal(t, http.StatusOK, status)

	var stored models.Driver
	require.NoError(t, env.db.First(&stored, id).Error)
	assert.Equal(t, "Ana R.", stored.Name)
	assert.False(t, stored.Active)
	require.NotNil(t, stored.HomeBase)
	assert.Equal(t, "Laredo", *stored.HomeBase)

	status, _ = env.do(t, jsonRequest(http.MethodPut, "/drivers/9999", map[string]interface{}{"name": "Ghost"}))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, jsonRequest(http.MethodPut, fmt.Sprintf("/drivers/%d", id), map[string]interface{}{"name": " "}))
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, jsonRequest(http.MethodGet, "/drivers?active=false", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["drivers"], 1)
}

func TestUnits(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(http.MethodPost, "/units", map[string]interface{}{"type": "tractor"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, fieldErrors(t, body), "code")

	status, body = env.do(t, jsonRequest(http.MethodPost, "/units", map[string]interface{}{"code": "T-100", "type": "tractor"}))
	require.Equal(t, http.StatusCreated, status)
	unit := body["unit"].(map[string]interface{})
	assert.Equal(t, "T-100", unit["code"])
	assert.Equal(t, "tractor", unit["type"])
	assert.Equal(t, true, unit["active"])
}

func TestUnitImport(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&models.Unit{Code: "T-1", Active: true}).Error)

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"CODE", "TYPE", "HOME_BASE", "ACTIVE"},
		{"T-1", "tractor", "Dallas", "yes"},
		{"T-2", "tractor", "Dallas", "yes"},
		{"T-3", "", "", "no"},
		{"T-2", "tractor", "", ""},
		{"T-4", "", "", "maybe"},
	}
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	status, body := env.do(t, fileRequest(t, "/units/import", "units.xlsx", buf.Bytes()))
	require.Equal(t, http.StatusOK, status, body)
	result := body["result"].(map[string]interface{})
	assert.EqualValues(t, 5, result["totalRows"])
	assert.EqualValues(t, 2, result["successCount"])
	assert.EqualValues(t, 2, result["skippedCount"])
	assert.EqualValues(t, 1, result["errorCount"])

	var inactive models.Unit
	require.NoError(t, env.db.Where("code = ?", "T-3").First(&inactive).Error)
	assert.False(t, inactive.Active)

	status, _ = env.do(t, fileRequest(t, "/units/import", "units.csv", []byte("CODE\nT-9\n")))
	assert.Equal(t, http.StatusBadRequest, status)
}

func seedTrip(t *testing.T, db *gorm.DB) models.Trip {
	t.Helper()
	rate := models.Rate{
		Type:     "dry_van",
		FixedCPM: decimal.RequireFromString("0.5"),
		WageCPM:  decimal.RequireFromString("0.5"),
	}
	require.NoError(t, db.Create(&rate).Error)
	trip := models.Trip{
		RateID:  &rate.ID,
		Miles:   decimal.RequireFromString("100"),
		Revenue: decimal.RequireFromString("500"),
	}
	require.NoError(t, db.Create(&trip).Error)
	return trip
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t)
	trip := seedTrip(t, env.db)

	status, body := env.do(t, jsonRequest(http.MethodPost, "/events", map[string]interface{}{"tripId": trip.ID}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, fieldErrors(t, body), "type")

	status, _ = env.do(t, jsonRequest(http.MethodPost, "/events",
		map[string]interface{}{"tripId": 9999, "type": models.EventTripStarted}))
	assert.Equal(t, http.StatusNotFound, status)

	before := time.Now().UTC()
	status, body = env.do(t, jsonRequest(http.MethodPost, "/events",
		map[string]interface{}{"tripId": trip.ID, "type": models.EventTripStarted, "location": "Dallas, TX"}))
	require.Equal(t, http.StatusCreated, status)
	assert.NotZero(t, body["id"])

	var stored models.Event
	require.NoError(t, env.db.First(&stored, uint(body["id"].(float64))).Error)
	assert.WithinDuration(t, before, stored.At, 5*time.Second)

	// unknown types are accepted
	status, _ = env.do(t, jsonRequest(http.MethodPost, "/events", map[string]interface{}{
		"tripId": trip.ID, "type": "fuel_stop", "at": before.Add(time.Hour).Format(time.RFC3339),
	}))
	require.Equal(t, http.StatusCreated, status)

	status, body = env.do(t, jsonRequest(http.MethodGet, "/events", nil))
	require.Equal(t, http.StatusOK, status)
	events := body["events"].([]interface{})
	require.Len(t, events, 2)
	newest := events[0].(map[string]interface{})
	assert.Equal(t, "fuel_stop", newest["type"])
	assert.Equal(t, float64(trip.ID), newest["trip"].(map[string]interface{})["id"])

	status, body = env.do(t, jsonRequest(http.MethodGet, "/events?limit=1", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["events"], 1)

	status, _ = env.do(t, jsonRequest(http.MethodGet, "/events?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTripRecalc(t *testing.T) {
	env := newTestEnv(t)
	trip := seedTrip(t, env.db)

	status, _ := env.do(t, jsonRequest(http.MethodPost, "/trips/9999/recalc", nil))
	assert.Equal(t, http.StatusNotFound, status)

	start := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	for _, e := range []struct {
		typ    string
		offset time.Duration
	}{
		{models.EventTripStarted, 0},
		{models.EventArrivedPickup, time.Hour},
		{models.EventLeftPickup, 2 * time.Hour},
		{models.EventArrivedDelivery, 6 * time.Hour},
		{models.EventFinishedDelivery, 7 * time.Hour},
	} {
		status, _ := env.do(t, jsonRequest(http.MethodPost, "/events", map[string]interface{}{
			"tripId": trip.ID, "type": e.typ, "at": start.Add(e.offset).Format(time.RFC3339),
		}))
		require.Equal(t, http.StatusCreated, status)
	}

	path := fmt.Sprintf("/trips/%d/recalc", trip.ID)
	status, body := env.do(t, jsonRequest(http.MethodPost, path, nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.EqualValues(t, 60, body["loadingMinutes"])
	assert.EqualValues(t, 240, body["transitMinutes"])
	assert.EqualValues(t, 60, body["unloadingMinutes"])
	assert.EqualValues(t, 420, body["totalMinutes"])
	assert.EqualValues(t, 5, body["eventCount"])
	assert.Equal(t, "2024-03-05T08:00:00.000Z", body["startedAt"])
	assert.InDelta(t, 1.0, body["totalCPM"], 1e-9)
	assert.InDelta(t, 100.0, body["totalCost"], 1e-9)
	assert.InDelta(t, 400.0, body["profit"], 1e-9)
	assert.InDelta(t, 0.8, body["marginPct"], 1e-9)

	_, again := env.do(t, jsonRequest(http.MethodPost, path, nil))
	assert.Equal(t, body, again)

	status, body = env.do(t, jsonRequest(http.MethodGet, fmt.Sprintf("/trips/%d", trip.ID), nil))
	require.Equal(t, http.StatusOK, status)
	stored := body["trip"].(map[string]interface{})
	assert.EqualValues(t, 420, stored["totalMinutes"])
	assert.NotNil(t, stored["rate"])
}

func TestTripCreate(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(http.MethodPost, "/trips", map[string]interface{}{
		"unitId": 42, "miles": -5,
	}))
	assert.Equal(t, http.StatusBadRequest, status)
	fields := fieldErrors(t, body)
	assert.Contains(t, fields, "unitId")
	assert.Contains(t, fields, "miles")

	unit := models.Unit{Code: "T-7", Active: true}
	require.NoError(t, env.db.Create(&unit).Error)
	status, body = env.do(t, jsonRequest(http.MethodPost, "/trips", map[string]interface{}{
		"unitId": unit.ID, "miles": "812.5", "revenue": 2400,
	}))
	require.Equal(t, http.StatusCreated, status)
	trip := body["trip"].(map[string]interface{})
	assert.InDelta(t, 812.5, trip["miles"], 1e-9)
	assert.NotEmpty(t, trip["refNo"])

	resp := env.raw(t, jsonRequest(http.MethodGet, fmt.Sprintf("/trips/%v/qrcode", trip["id"]), nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRateQuote(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(http.MethodPost, "/rates/quote", map[string]interface{}{
		"miles": 250, "fixedCPM": 0.4, "wageCPM": "0.55", "revenue": 600,
	}))
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.95, body["totalCPM"], 1e-9)
	assert.InDelta(t, 237.5, body["totalCost"], 1e-9)
	assert.InDelta(t, 362.5, body["profit"], 1e-9)

	status, body = env.do(t, jsonRequest(http.MethodPost, "/rates/quote", map[string]interface{}{"miles": 10}))
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["marginPct"])

	status, body = env.do(t, jsonRequest(http.MethodPost, "/rates/quote", map[string]interface{}{"wageCPM": -1}))
	assert.Equal(t, http.StatusBadRequest, status)
	fields := fieldErrors(t, body)
	assert.Contains(t, fields, "miles")
	assert.Contains(t, fields, "wageCPM")

	status, body = env.do(t, jsonRequest(http.MethodPost, "/rates", map[string]interface{}{
		"type": "reefer", "fixedCPM": "0.5", "wageCPM": "0.6", "addOnsCPM": "0.1", "rollingCPM": "0.4",
	}))
	require.Equal(t, http.StatusCreated, status)
	rateID := body["rate"].(map[string]interface{})["id"]

	status, body = env.do(t, jsonRequest(http.MethodPost, "/rates/quote", map[string]interface{}{
		"rateId": rateID, "miles": 100, "fixedCPM": 9,
	}))
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 160.0, body["totalCost"], 1e-9)

	status, _ = env.do(t, jsonRequest(http.MethodPost, "/rates/quote", map[string]interface{}{"rateId": 9999, "miles": 1}))
	assert.Equal(t, http.StatusNotFound, status)
}

const scannedText = "Customer: Northwind Foods\nShip From: Dallas, TX\nShip To: Savannah, GA\nPickup Date: 2024-03-05 08:00 - 12:00\nEquipment: Flatbed\nPO #: 55120\n"

func TestOcrOrder(t *testing.T) {
	env := newTestEnv(t)
	env.engine.text = scannedText
	env.engine.conf = 0.9

	status, body := env.do(t, fileRequest(t, "/ocr/order", "scan.png", pngBytes(t)))
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["ok"])
	assert.InDelta(t, 0.9, body["ocrConfidence"], 1e-9)
	assert.Equal(t, ocr.BandSuccess, body["confidenceBand"])
	assert.Equal(t, scannedText[:len(scannedText)-1], body["text"])

	parsed := body["parsed"].(map[string]interface{})
	assert.Equal(t, "Northwind Foods", parsed["customer"])
	assert.Equal(t, "flatbed", parsed["truckType"])
	assert.Equal(t, "55120", parsed["reference"])
	assert.Equal(t, "2024-03-05T08:00:00.000Z", parsed["pickupStart"])
	assert.Equal(t, "2024-03-05T12:00:00.000Z", parsed["pickupEnd"])
	assert.Nil(t, parsed["deliveryStart"])

	var scan models.OcrScan
	require.NoError(t, env.db.First(&scan, uint(body["scanId"].(float64))).Error)
	assert.Equal(t, "scan.png", scan.Filename)
	assert.Equal(t, "stub", scan.Engine)
	assert.Len(t, scan.SHA256, 64)

	// confirming the draft links the order to its scan
	status, body = env.do(t, jsonRequest(http.MethodPost, "/orders", map[string]interface{}{
		"customer": parsed["customer"], "origin": "Dallas, TX", "destination": "Savannah, GA",
		"pickupStart": parsed["pickupStart"], "pickupEnd": parsed["pickupEnd"],
		"ocrScanId": scan.ID,
	}))
	require.Equal(t, http.StatusCreated, status, body)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, models.OrderSourceOCR, order["source"])
	assert.Equal(t, models.OrderStatusConfirmed, order["status"])
}

func TestOcrOrder_Rejections(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, prefix+"/ocr/order", nil)
	status, body := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, fieldErrors(t, body), "file")

	status, _ = env.do(t, fileRequest(t, "/ocr/order", "scan.png", []byte("plain text")))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, fileRequest(t, "/ocr/order", "scan.png", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	// 54-byte BMP header claiming 20000x20000 pixels.
	var huge bytes.Buffer
	huge.WriteString("BM")
	for _, v := range []any{uint32(54), uint32(0), uint32(54), uint32(40), int32(20000), int32(20000),
		uint16(1), uint16(24), [6]uint32{}} {
		require.NoError(t, binary.Write(&huge, binary.LittleEndian, v))
	}
	status, body = env.do(t, fileRequest(t, "/ocr/order", "scan.bmp", huge.Bytes()))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []interface{}{"Not a supported image"}, fieldErrors(t, body)["file"])

	env.engine.err = errors.New("engine crashed")
	status, body = env.do(t, fileRequest(t, "/ocr/order", "scan.png", pngBytes(t)))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body["error"], "engine crashed")

	var scans int64
	require.NoError(t, env.db.Model(&models.OcrScan{}).Count(&scans).Error)
	assert.Zero(t, scans)
}

func TestOrders(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, jsonRequest(http.MethodPost, "/orders", map[string]interface{}{
		"customer": "Acme", "origin": "A", "destination": "B",
		"pickupStart": "2024-03-05T12:00:00Z", "pickupEnd": "2024-03-05T08:00:00Z",
		"deliveryEnd": "2024-03-06T08:00:00Z",
		"ocrScanId":   77,
	}))
	assert.Equal(t, http.StatusBadRequest, status)
	fields := fieldErrors(t, body)
	assert.Contains(t, fields, "pickupEnd")
	assert.Contains(t, fields, "deliveryStart")
	assert.Contains(t, fields, "ocrScanId")

	for _, customer := range []string{"Acme", "Globex"} {
		status, body = env.do(t, jsonRequest(http.MethodPost, "/orders", map[string]interface{}{
			"customer": customer, "origin": "Dallas, TX", "destination": "Tulsa, OK",
			"truckType": "dry_van", "status": "draft",
		}))
		require.Equal(t, http.StatusCreated, status, body)
	}
	order := body["order"].(map[string]interface{})
	assert.Equal(t, models.OrderSourceManual, order["source"])
	assert.IsType(t, "", order["refNo"])
	assert.Nil(t, order["pickupStart"])

	status, body = env.do(t, jsonRequest(http.MethodGet, "/orders?status=draft", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 2)

	status, body = env.do(t, jsonRequest(http.MethodGet, "/orders?status=confirmed", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["orders"])

	resp := env.raw(t, jsonRequest(http.MethodGet, "/orders/export", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ref No", rows[0][0])
	assert.ElementsMatch(t, []string{"Acme", "Globex"}, []string{rows[1][3], rows[2][3]})
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, func(d *Dependencies) { d.AuthRequired = true })
	users := services.NewUserService(repositories.NewUserRepository(env.db), "test-secret", time.Hour)
	_, err := users.CreateUser("dispatch", "Dispatch Desk", "s3cret!")
	require.NoError(t, err)

	status, _ := env.do(t, jsonRequest(http.MethodGet, "/drivers", nil))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, jsonRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, jsonRequest(http.MethodPost, "/auth/login",
		map[string]interface{}{"username": "dispatch", "password": "wrong"}))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := env.do(t, jsonRequest(http.MethodPost, "/auth/login",
		map[string]interface{}{"username": "dispatch", "password": "s3cret!"}))
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	req := jsonRequest(http.MethodPost, "/drivers", map[string]interface{}{"name": "Lee"})
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	status, _ = env.do(t, req)
	require.Equal(t, http.StatusCreated, status)

	var driver models.Driver
	require.NoError(t, env.db.Where("name = ?", "Lee").First(&driver).Error)
	assert.NotZero(t, driver.CreatedBy)

	req = jsonRequest(http.MethodGet, "/drivers", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	status, _ = env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, status)
}
