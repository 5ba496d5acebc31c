package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/internal/seed"
	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	engine *gin.Engine
	tokens *utils.TokenManager
}

func newTestServer(t *testing.T, withAuth bool, storeOpts ...repositories.StoreOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repositories.NewStore(storeOpts...)
	fixtures, err := seed.Fixtures("")
	require.NoError(t, err)
	require.NoError(t, seed.Apply(store, fixtures))

	opts := ServiceOptions{Location: time.UTC}
	var tokens *utils.TokenManager
	if withAuth {
		tokens = utils.NewTokenManager("router-test-secret", time.Hour)
		opts.Tokens = tokens
		opts.Accounts = []services.Account{
			{Username: "admin", Password: "admin-pass", Role: models.RoleAdmin},
			{Username: "staff", Password: "staff-pass", Role: models.RoleStaff},
		}
	}
	svc, err := NewServices(store, opts)
	require.NoError(t, err)

	engine := gin.New()
	Setup(engine, svc, Options{Tokens: tokens, RequestTimeout: 2 * time.Second})
	return &testServer{engine: engine, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apiErrorBody
	decode(t, rec, &body)
	return body.Error.Code
}

func TestPingAndMetrics(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.do(t, http.MethodGet, "/api/v1/products", nil, "")
	rec = srv.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "repairshop_http_requests_total")
}

func TestProductRoutes(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/api/v1/products", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []models.ProductWithLevel
	decode(t, rec, &products)
	assert.Len(t, products, 10)

	rec = srv.do(t, http.MethodGet, "/api/v1/products?stock=out", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "prd-004", products[0].ID)
	assert.Equal(t, models.StockLevelOut, products[0].StockLevel)

	rec = srv.do(t, http.MethodGet, "/api/v1/products/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, utils.ErrCodeNotFound, errorCode(t, rec))

	rec = srv.do(t, http.MethodPost, "/api/v1/products", map[string]interface{}{"sku": "SCR-IP13", "name": "Dup"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/products", map[string]interface{}{"sku": "NEW-1", "name": "New", "price": -1}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeValidationFailed, errorCode(t, rec))

	rec = srv.do(t, http.MethodPatch, "/api/v1/products/prd-001", map[string]interface{}{"price": 119.99}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var product models.Product
	decode(t, rec, &product)
	assert.Equal(t, "119.99", product.Price.StringFixed(2))

	rec = srv.do(t, http.MethodPost, "/api/v1/products/prd-009/stock", map[string]interface{}{"delta": -5}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/products/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []string
	decode(t, rec, &categories)
	assert.Contains(t, categories, "Screens")

	rec = srv.do(t, http.MethodGet, "/api/v1/products/low-stock", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutFlow(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodPost, "/api/v1/pos/carts", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var cart models.CartView
	decode(t, rec, &cart)

	rec = srv.do(t, http.MethodPost, "/api/v1/pos/carts/"+cart.ID+"/items", map[string]interface{}{"productId": "prd-001", "quantity": 3}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cart)
	assert.Equal(t, "389.97", cart.Totals.Subtotal.StringFixed(2))

	rec = srv.do(t, http.MethodPost, "/api/v1/pos/carts/"+cart.ID+"/checkout", map[string]interface{}{"customer": map[string]string{"name": ""}}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/pos/carts/"+cart.ID+"/checkout", map[string]interface{}{"customer": map[string]string{"name": "Jane"}}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var result services.CheckoutResult
	decode(t, rec, &result)
	assert.Equal(t, "389.97", result.Invoice.Subtotal.StringFixed(2))
	assert.Equal(t, "31.20", result.Invoice.Tax.StringFixed(2))
	assert.Equal(t, "421.17", result.Invoice.Total.StringFixed(2))
	assert.Empty(t, result.Cart.Lines)

	rec = srv.do(t, http.MethodGet, "/api/v1/products/prd-001", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var product models.Product
	decode(t, rec, &product)
	assert.Equal(t, 5, product.Stock)

	rec = srv.do(t, http.MethodGet, "/api/v1/invoices/"+result.Invoice.ID, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/invoices/export", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rec.Body.String(), result.Invoice.ID)
}

func TestCheckoutConflictKeepsStock(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodPost, "/api/v1/pos/carts", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var cart models.CartView
	decode(t, rec, &cart)

	rec = srv.do(t, http.MethodPost, "/api/v1/pos/carts/"+cart.ID+"/items", map[string]interface{}{"productId": "prd-009", "quantity": 2}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/v1/products/prd-009/stock", map[string]interface{}{"delta": -1, "reason": "damaged"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/pos/carts/"+cart.ID+"/checkout", map[string]interface{}{"customer": map[string]string{"name": "Jane"}}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, utils.ErrCodeConflict, errorCode(t, rec))

	rec = srv.do(t, http.MethodGet, "/api/v1/products/prd-009", nil, "")
	var product models.Product
	decode(t, rec, &product)
	assert.Equal(t, 1, product.Stock)

	rec = srv.do(t, http.MethodGet, "/api/v1/pos/carts/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRepairOrderAndCalendarRoutes(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodPost, "/api/v1/repair-orders", map[string]interface{}{
		"customerName": "Sam", "deviceInfo": "iPad Air", "issue": "Dead battery", "laborCost": 40,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var order models.RepairOrder
	decode(t, rec, &order)
	assert.Equal(t, models.RepairStatusPending, order.Status)

	rec = srv.do(t, http.MethodGet, "/api/v1/technicians", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var technicians []models.Technician
	decode(t, rec, &technicians)
	require.NotEmpty(t, technicians)

	rec = srv.do(t, http.MethodPost, "/api/v1/calendar/assignments", map[string]interface{}{
		"orderId": order.ID, "technicianId": technicians[0].ID, "date": "2024-03-14",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &order)
	require.NotNil(t, order.ScheduledDate)
	assert.Equal(t, "2024-03-14", order.ScheduledDate.Format("2006-01-02"))

	rec = srv.do(t, http.MethodGet, "/api/v1/calendar/week?date=03/14/2024", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var week models.WeekSchedule
	decode(t, rec, &week)
	assert.Equal(t, "2024-03-11", week.WeekStart.Format("2006-01-02"))

	rec = srv.do(t, http.MethodGet, "/api/v1/calendar/technicians/"+technicians[0].ID+"/day?date=2024-03-14", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var day []models.RepairOrder
	decode(t, rec, &day)
	assert.NotEmpty(t, day)

	rec = srv.do(t, http.MethodGet, "/api/v1/calendar/week?date=not-a-date", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/repair-orders/"+order.ID+"/assign", map[string]interface{}{"technicianId": "ghost"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/v1/repair-orders/"+order.ID, map[string]interface{}{"status": "archived"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, "/api/v1/repair-orders/"+order.ID+"/time-spent", map[string]interface{}{"hours": 2.5}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &order)
	assert.Equal(t, 2.5, order.TimeSpent)

	rec = srv.do(t, http.MethodGet, "/api/v1/dashboard/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dash models.DashboardSummary
	decode(t, rec, &dash)
	assert.Equal(t, 10, dash.TotalProducts)
	assert.GreaterOrEqual(t, dash.PendingOrders, 1)
}

func TestCalendarDefaultsToStoreClock(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC) }
	srv := newTestServer(t, false, repositories.WithClock(clock))

	rec := srv.do(t, http.MethodGet, "/api/v1/calendar/week", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var week models.WeekSchedule
	decode(t, rec, &week)
	assert.Equal(t, "2024-03-11", week.WeekStart.Format("2006-01-02"))

	rec = srv.do(t, http.MethodPost, "/api/v1/calendar/assignments", map[string]interface{}{
		"orderId": "ro-004", "technicianId": "tech-001",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var order models.RepairOrder
	decode(t, rec, &order)
	require.NotNil(t, order.ScheduledDate)
	assert.Equal(t, "2024-03-14", order.ScheduledDate.Format("2006-01-02"))

	rec = srv.do(t, http.MethodGet, "/api/v1/calendar/technicians/tech-001/day", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var day []models.RepairOrder
	decode(t, rec, &day)
	ids := make([]string, 0, len(day))
	for _, o := range day {
		ids = append(ids, o.ID)
	}
	assert.Contains(t, ids, "ro-004")
}

func TestPatchRejectsFractionalStock(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodPatch, "/api/v1/products/prd-001", map[string]interface{}{"stock": 2.7}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeValidationFailed, errorCode(t, rec))

	rec = srv.do(t, http.MethodGet, "/api/v1/products/prd-001", nil, "")
	var product models.Product
	decode(t, rec, &product)
	assert.Equal(t, 8, product.Stock)

	rec = srv.do(t, http.MethodGet, "/api/v1/repair-orders/ro-004", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"parts":[]`)
}

func TestSettingsAndNotificationRoutes(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodPut, "/api/v1/settings", map[string]interface{}{"backup": map[string]interface{}{"frequency": "yearly"}}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, "/api/v1/settings", map[string]interface{}{"backup": map[string]interface{}{"autoBackup": true, "frequency": "hourly"}}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var settings models.Settings
	decode(t, rec, &settings)
	assert.True(t, settings.Backup.AutoBackup)
	assert.Equal(t, models.BackupHourly, settings.Backup.Frequency)

	rec = srv.do(t, http.MethodPost, "/api/v1/settings/backup", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/products/prd-009/stock", map[string]interface{}{"delta": -1}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/notifications?limit=5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []models.Notification
	decode(t, rec, &feed)
	require.NotEmpty(t, feed)
	assert.Equal(t, services.NotificationLowStock, feed[0].Kind)

	rec = srv.do(t, http.MethodDelete, "/api/v1/notifications", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/notifications?limit=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthAndRoles(t *testing.T) {
	srv := newTestServer(t, true)

	rec := srv.do(t, http.MethodGet, "/api/v1/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "staff", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "staff", "password": "staff-pass"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var login models.LoginResponse
	decode(t, rec, &login)
	require.NotEmpty(t, login.AccessToken)

	rec = srv.do(t, http.MethodGet, "/api/v1/products", nil, login.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	decode(t, rec, &me)
	assert.Equal(t, models.RoleStaff, me.Role)

	rec = srv.do(t, http.MethodDelete, "/api/v1/products/prd-010", nil, login.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := srv.tokens.GenerateAccessToken("admin", models.RoleAdmin)
	require.NoError(t, err)
	rec = srv.do(t, http.MethodDelete, "/api/v1/products/prd-010", nil, adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/products", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repositories.NewStore(repositories.WithLatency(200 * time.Millisecond))
	svc, err := NewServices(store, ServiceOptions{})
	require.NoError(t, err)
	engine := gin.New()
	Setup(engine, svc, Options{RequestTimeout: 20 * time.Millisecond})
	srv := &testServer{engine: engine}

	rec := srv.do(t, http.MethodGet, "/api/v1/products", nil, "")
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, utils.ErrCodeTimeout, errorCode(t, rec))
}
