package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/config"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/metrics"
	"github.com/sangkips/restaurant-pos-api/internal/presentation/http/handler"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter wires handlers without services; only requests rejected before
// reaching a service are exercised here.
func newRouter(t *testing.T) (*gin.Engine, *utils.JWTManager) {
	t.Helper()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	cfg := &config.Config{
		App:       config.AppConfig{Name: "restaurant-pos-api"},
		RateLimit: config.RateLimitConfig{Requests: 100, Duration: 60, AuthRate: "20-M"},
	}

	h := &Handlers{
		Auth:      handler.NewAuthHandler(nil, nil, false),
		User:      handler.NewUserHandler(nil),
		Staff:     handler.NewStaffHandler(nil),
		Customer:  handler.NewCustomerHandler(nil),
		Table:     handler.NewTableHandler(nil),
		Menu:      handler.NewMenuHandler(nil),
		Voucher:   handler.NewVoucherHandler(nil),
		Invoice:   handler.NewInvoiceHandler(nil, nil),
		Inventory: handler.NewInventoryHandler(nil),
		Report:    handler.NewReportHandler(nil),
		Printer:   handler.NewPrinterHandler(nil),
	}

	var router *gin.Engine
	require.NotPanics(t, func() {
		var err error
		router, err = Setup(h, &Deps{JWTManager: jwtManager, Cfg: cfg, Metrics: metrics.New()})
		require.NoError(t, err)
	})
	return router, jwtManager
}

func token(t *testing.T, m *utils.JWTManager, permissions ...string) string {
	t.Helper()
	tok, err := m.GenerateAccessToken(uuid.New(), "staff@example.com", []string{entity.RoleStaff}, permissions)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(router http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetup_HealthAndMetrics(t *testing.T) {
	router, _ := newRouter(t)

	w := do(router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"restaurant-pos-api"}`, w.Body.String())

	w = do(router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `path="/health"`)
}

func TestSetup_RequiresAuthentication(t *testing.T) {
	router, _ := newRouter(t)

	for _, path := range []string{"/api/v1/invoices", "/api/v1/stock", "/api/v1/reports/dashboard", "/api/v1/profile"} {
		assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, path, "", "").Code, path)
	}
}

func TestSetup_Permissions(t *testing.T) {
	router, jwtManager := newRouter(t)
	cashier := token(t, jwtManager, entity.PermManageInvoices)

	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/api/v1/reports/dashboard", cashier, "").Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodPost, "/api/v1/vouchers", cashier, `{}`).Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/api/v1/stock", cashier, "").Code)

	// Inventory clerks may not confirm without confirm-stock.
	clerk := token(t, jwtManager, entity.PermManageInventory)
	w := do(router, http.MethodPost, "/api/v1/stock-ins/"+uuid.NewString()+"/confirm", clerk, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSetup_HandlerValidation(t *testing.T) {
	router, jwtManager := newRouter(t)
	cashier := token(t, jwtManager, entity.PermManageInvoices)

	w := do(router, http.MethodGet, "/api/v1/invoices/not-a-uuid", cashier, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid invoice ID")

	w = do(router, http.MethodPost, "/api/v1/invoices/"+uuid.NewString()+"/lines", cashier, `{"quantity":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/v1/invoices", cashier, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Idempotency-Key")

	chef := token(t, jwtManager, entity.PermManageMenu)
	w = do(router, http.MethodPost, "/api/v1/categories", chef, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/v1/invoices?from=2025-13-01", cashier, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetup_GoogleNotConfigured(t *testing.T) {
	router, _ := newRouter(t)

	w := do(router, http.MethodGet, "/api/v1/auth/google", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
