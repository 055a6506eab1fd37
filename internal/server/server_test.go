package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	stdimage "image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"apartments/internal/config"
	"apartments/internal/database"
	"apartments/internal/domain"
	"apartments/internal/imagestore"
	"apartments/internal/resource"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: fmt.Sprintf("file:server_test_%s?mode=memory&cache=shared", name)}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store, err := imagestore.NewLocal(t.TempDir(), "/static/uploads", nil)
	require.NoError(t, err)

	r := NewRouter(Dependencies{
		DB:     db,
		Store:  store,
		Config: &config.Config{AppVersion: "1.0.0"},
	})
	return &testEnv{router: r, db: db}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var body map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func (e *testEnv) seedApartment(t *testing.T, title string, price float64, status domain.ApartmentStatus) *domain.Apartment {
	t.Helper()
	a := &domain.Apartment{
		Title: title, Description: "Seeded for tests", Price: price,
		Bedrooms: 2, Bathrooms: 1, AreaSqm: 65, Status: status,
	}
	require.NoError(t, e.db.Omit("Images", "Features", "Amenities").Create(a).Error)
	return a
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, apartmentID int64, data []byte, primary bool) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	if primary {
		require.NoError(t, w.WriteField("is_primary", "true"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/apartments/%d/images", apartmentID), &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	e := setup(t)

	w, body := e.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "API is running", body["message"])
	assert.Equal(t, "1.0.0", body["version"])
	ts, ok := body["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(resource.DateTimeLayout, ts)
	assert.NoError(t, err)
}

func TestApartmentNotFound(t *testing.T) {
	e := setup(t)

	w, body := e.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/apartments/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Apartment not found", body["message"])
}

func TestUnknownRouteAndMethod(t *testing.T) {
	e := setup(t)

	w, body := e.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "The requested endpoint does not exist.", body["message"])

	w, body = e.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/apartments", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "The HTTP method is not allowed for this endpoint.", body["message"])
}

func TestListFiltersAndValidation(t *testing.T) {
	e := setup(t)
	e.seedApartment(t, "Elegant City Studio", 1200, domain.StatusAvailable)
	e.seedApartment(t, "Industrial Chic Loft", 2200, domain.StatusRented)
	e.seedApartment(t, "Luxury Downtown Penthouse", 3500, domain.StatusAvailable)

	w, body := e.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/apartments?min_price=1200&max_price=2200&sort_by=price_desc", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	items := data["data"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Industrial Chic Loft", items[0].(map[string]any)["title"])
	meta := data["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["total"])
	assert.EqualValues(t, 1, meta["available_count"])
	assert.EqualValues(t, 1, meta["rented_count"])

	w, body = e.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/apartments?min_price=3000&max_price=1000", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The given data was invalid.", body["message"])
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "max_price")
}

func TestCreateApartment(t *testing.T) {
	e := setup(t)

	payload := `{
		"title": "Serene Garden View Residence",
		"description": "Ground floor residence opening onto a private garden, two bedrooms and a sunny kitchen.",
		"price": 2500,
		"bedrooms": 2,
		"bathrooms": 2,
		"area_sqm": 95,
		"status": "available",
		"features": [{"name": "Garden", "value": "Private"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/apartments", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w, body := e.do(t, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := body["data"].(map[string]any)
	assert.Equal(t, "serene-garden-view-residence", data["slug"])
	price := data["price"].(map[string]any)
	assert.Equal(t, "$2,500", price["formatted"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/apartments", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w, body = e.do(t, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := body["errors"].(map[string]any)
	assert.Equal(t, []any{"An apartment with this title already exists."}, errs["title"])
}

func TestUploadTooLarge(t *testing.T) {
	e := setup(t)
	apt := e.seedApartment(t, "Spacious Family Residence", 2800, domain.StatusAvailable)

	data := append(pngBytes(t), bytes.Repeat([]byte{0}, 3*1024*1024)...)
	w, body := e.do(t, uploadRequest(t, apt.ID, data, false))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "image")
}

func TestUploadToMissingApartment(t *testing.T) {
	e := setup(t)

	w, body := e.do(t, uploadRequest(t, 404, pngBytes(t), false))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Apartment not found", body["message"])
}

func TestImageLifecycle(t *testing.T) {
	e := setup(t)
	apt := e.seedApartment(t, "Luxury Downtown Penthouse", 3500, domain.StatusAvailable)

	w, body := e.do(t, uploadRequest(t, apt.ID, pngBytes(t), false))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := body["data"].(map[string]any)
	assert.Equal(t, true, first["is_primary"])
	assert.EqualValues(t, 4, first["width"])
	assert.EqualValues(t, 3, first["height"])

	w, body = e.do(t, uploadRequest(t, apt.ID, pngBytes(t), false))
	require.Equal(t, http.StatusCreated, w.Code)
	second := body["data"].(map[string]any)
	assert.Equal(t, false, second["is_primary"])
	assert.EqualValues(t, 1, second["order"])

	// stored file is served
	w, _ = e.do(t, httptest.NewRequest(http.MethodGet, first["url"].(string), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	secondID := int64(second["id"].(float64))
	firstID := int64(first["id"].(float64))

	w, body = e.do(t, httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/images/%d/primary", secondID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["data"].(map[string]any)["is_primary"])

	w, body = e.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/apartments/%d", apt.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	primary := body["data"].(map[string]any)["primary_image"].(map[string]any)
	assert.EqualValues(t, secondID, primary["id"])

	w, _ = e.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/images/%d", secondID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var promoted domain.Image
	require.NoError(t, e.db.First(&promoted, firstID).Error)
	assert.True(t, promoted.IsPrimary)

	w, _ = e.do(t, httptest.NewRequest(http.MethodGet, second["url"].(string), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = e.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/images/%d", secondID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Image not found", body["message"])
}

func TestStatistics(t *testing.T) {
	e := setup(t)
	e.seedApartment(t, "A", 1000, domain.StatusAvailable)
	e.seedApartment(t, "B", 2000, domain.StatusRented)
	e.seedApartment(t, "C", 3000, domain.StatusAvailable)

	w, body := e.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/statistics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Statistics retrieved successfully", body["message"])
	data := body["data"].(map[string]any)
	pricing := data["pricing"].(map[string]any)
	assert.EqualValues(t, 2000, pricing["average"])
	apartments := data["apartments"].(map[string]any)
	assert.EqualValues(t, 33.33, apartments["occupancy_rate"])
}
