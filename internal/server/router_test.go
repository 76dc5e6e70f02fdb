package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kuku/internal/auth"
	"kuku/internal/config"
	"kuku/internal/dashboard"
	"kuku/internal/infrastructure/lock"
	"kuku/internal/order"
	"kuku/internal/payment"
	"kuku/internal/payment/gateway"
	paymentservice "kuku/internal/payment/service"
	"kuku/internal/product"
	"kuku/internal/testutil"
)

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	TraceID string                 `json:"traceId"`
}

type testApp struct {
	db      *sql.DB
	handler http.Handler
	token   string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	hash, err := bcrypt.GenerateFromPassword([]byte("kuku-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Auth.SigningKey = "test-signing-key"
	cfg.Auth.PasswordHash = string(hash)
	cfg.Payment.WebhookSecret = "whsec_test"

	productModule := product.NewModule(db, logger)
	authModule := auth.NewModule(cfg.Auth, logger)

	handler := NewRouter(Handlers{
		Product:      productModule.Controller,
		Order:        order.NewModule(db, cfg, productModule.Service, logger),
		Payment:      payment.NewModule(db, cfg, gateway.AlwaysApprove{}, lock.NewKeyedMutex(), paymentservice.NoopEventStore{}, logger),
		Dashboard:    dashboard.NewModule(db, logger),
		Auth:         authModule.Controller,
		RequireAdmin: authModule.RequireAdmin,
	}, logger)

	app := &testApp{db: db, handler: handler}

	rec, env := app.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"kuku-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	app.token = env.Data["token"].(string)

	return app
}

func (a *testApp) request(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (a *testApp) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	return a.request(t, method, path, body, "")
}

func (a *testApp) admin(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	return a.request(t, method, path, body, a.token)
}

func (a *testApp) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, a.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n))
	return n
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-123", rec.Header().Get(requestIDHeader))
	assert.Contains(t, rec.Body.String(), `"traceId":"trace-123"`)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_UnknownRoute(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.do(t, http.MethodGet, "/chickens", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.TraceID)
}

func TestRouter_CheckoutFlow(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.admin(t, http.MethodPost, "/products",
		`{"title":"Fresh Broiler Chicken","description":"Farm fresh, dressed","category":"broiler","price":1200,"quantity":50}`)
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	productID := env.Data["id"].(string)

	rec, env = app.do(t, http.MethodPost, "/orders", fmt.Sprintf(`{
		"customerName":"Wanjiku Kamau","email":"wanjiku@example.com","phone":"+254712345678",
		"location":"Kiambu Road, Nairobi","items":[{"productId":%q,"quantity":1}],
		"deliveryFee":200,"total":1400}`, productID))
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	orderID := env.Data["id"].(string)
	assert.Equal(t, "pending", env.Data["status"])
	assert.Equal(t, false, env.Data["paymentVerified"])
	assert.Nil(t, env.Data["estimatedDelivery"])

	rec, env = app.do(t, http.MethodPost, "/payments/create", fmt.Sprintf(`{"orderId":%q,"amount":1400}`, orderID))
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	assert.NotEmpty(t, env.Data["transactionId"])

	rec, env = app.do(t, http.MethodPost, "/payments/verify/"+orderID, "")
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	assert.Equal(t, true, env.Data["verified"])
	payment := env.Data["payment"].(map[string]interface{})
	assert.Equal(t, "completed", payment["status"])

	rec, env = app.admin(t, http.MethodGet, "/orders/"+orderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", env.Data["status"])
	assert.Equal(t, true, env.Data["paymentVerified"])
	assert.NotNil(t, env.Data["estimatedDelivery"])

	rec, env = app.admin(t, http.MethodGet, "/dashboard/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), env.Data["totalOrders"])
	assert.Equal(t, float64(1400), env.Data["totalRevenue"])
	assert.Equal(t, float64(0), env.Data["pendingOrders"])
	assert.Equal(t, float64(1), env.Data["totalProducts"])

	rec, env = app.do(t, http.MethodPost, "/payments/verify/"+orderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, env.Data["verified"])
	assert.Equal(t, 1, app.count(t, "payments"))
}

func TestRouter_CreateOrderMissingPhone(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.admin(t, http.MethodPost, "/products",
		`{"title":"Tray of Eggs","description":"30 eggs","category":"eggs","price":450,"quantity":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	productID := env.Data["id"].(string)

	rec, env = app.do(t, http.MethodPost, "/orders", fmt.Sprintf(`{
		"customerName":"Otieno","email":"otieno@example.com","location":"Kisumu",
		"items":[{"productId":%q,"quantity":2}],"deliveryFee":100,"total":1000}`, productID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Equal(t, 0, app.count(t, "orders"))
	assert.Equal(t, 0, app.count(t, "order_items"))
}

func TestRouter_UpdateStatusUnknownOrder(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.admin(t, http.MethodPatch, "/orders/ORD-20260301-000000-ZZZZZZ/status", `{"status":"confirmed"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestRouter_GetUnknownProduct(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.do(t, http.MethodGet, "/products/does-not-exist", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/orders", ""},
		{http.MethodGet, "/orders/ORD-1", ""},
		{http.MethodPatch, "/orders/ORD-1/status", `{"status":"delivered"}`},
		{http.MethodGet, "/dashboard/stats", ""},
		{http.MethodPost, "/products", `{}`},
		{http.MethodPut, "/products/p-1", `{}`},
		{http.MethodDelete, "/products/p-1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec, env := app.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHORIZED", env.Code)
		})
	}
}

func TestRouter_WrongPassword(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}
