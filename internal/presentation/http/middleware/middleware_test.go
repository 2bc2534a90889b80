package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/infrastructure/metrics"
	"github.com/sangkips/restaurant-pos-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withUser(id uuid.UUID, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("user_permissions", permissions)
		c.Set("user_roles", []string{entity.RoleStaff})
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		id, _ := c.Get("user_id")
		c.String(http.StatusOK, id.(uuid.UUID).String())
	})

	access, err := jwtManager.GenerateAccessToken(userID, "cashier@example.com", []string{entity.RoleStaff}, []string{entity.PermManageInvoices})
	require.NoError(t, err)
	refresh, err := jwtManager.GenerateRefreshToken(userID)
	require.NoError(t, err)

	w := perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer " + access})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())

	cases := map[string]string{
		"missing":       "",
		"wrong scheme":  "Basic " + access,
		"refresh token": "Bearer " + refresh,
		"garbage":       "Bearer not-a-jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			headers := map[string]string{}
			if header != "" {
				headers["Authorization"] = header
			}
			w := perform(r, http.MethodGet, "/me", "", headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireAnyPermission(t *testing.T) {
	userID := uuid.New()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/cashier", withUser(userID, entity.PermManageInvoices), RequireAnyPermission(entity.PermManageInvoices, entity.PermManageVouchers), ok)
	r.GET("/reports", withUser(userID, entity.PermManageInvoices), RequirePermission(entity.PermViewReports), ok)
	r.GET("/anonymous", RequirePermission(entity.PermViewReports), ok)
	r.GET("/admin", withUser(userID), RequireRole(entity.RoleAdmin), ok)

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodGet, "/cashier", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/reports", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/anonymous", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/admin", "", nil).Code)
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{keys: map[string]entity.IdempotencyKey{}}
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[userID.String()+key]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

func (r *memoryIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[ikey.UserID.String()+ikey.Key] = *ikey
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

func (r *memoryIdempotencyRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

func TestIdempotencyRequired_Replays(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0

	r := gin.New()
	r.POST("/invoices/:id/checkout", withUser(uuid.New()), IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"call": calls})
	})

	headers := map[string]string{IdempotencyKeyHeader: "checkout-1"}
	first := perform(r, http.MethodPost, "/invoices/1/checkout", `{"payment_method":"cash"}`, headers)
	second := perform(r, http.MethodPost, "/invoices/1/checkout", `{"payment_method":"cash"}`, headers)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))

	reused := perform(r, http.MethodPost, "/invoices/1/checkout", `{"payment_method":"card"}`, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, reused.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyRequired_KeyBoundToResource(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	var paid []string

	r := gin.New()
	r.POST("/invoices/:id/checkout", withUser(uuid.New()), IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		paid = append(paid, c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"paid": c.Param("id")})
	})

	headers := map[string]string{IdempotencyKeyHeader: "k1"}
	body := `{"payment_method":"cash"}`
	first := perform(r, http.MethodPost, "/invoices/AAA/checkout", body, headers)
	other := perform(r, http.MethodPost, "/invoices/BBB/checkout", body, headers)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, other.Code)
	assert.Empty(t, other.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, []string{"AAA"}, paid)

	again := perform(r, http.MethodPost, "/invoices/AAA/checkout", body, headers)
	assert.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "true", again.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, []string{"AAA"}, paid)
}

func TestIdempotencyRequired_RejectsMissingKey(t *testing.T) {
	r := gin.New()
	r.POST("/invoices", withUser(uuid.New()), IdempotencyRequired(IdempotencyConfig{Repo: newMemoryIdempotencyRepo()}), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := perform(r, http.MethodPost, "/invoices", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Idempotency-Key")
}

func TestIdempotencyRequired_DoesNotStoreFailures(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	status := http.StatusConflict

	r := gin.New()
	r.POST("/invoices/:id/checkout", withUser(uuid.New()), IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		c.JSON(status, gin.H{})
	})

	headers := map[string]string{IdempotencyKeyHeader: "retry-me"}
	assert.Equal(t, http.StatusConflict, perform(r, http.MethodPost, "/invoices/1/checkout", `{}`, headers).Code)
	assert.Equal(t, 0, repo.count())

	status = http.StatusOK
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/invoices/1/checkout", `{}`, headers).Code)
	assert.Equal(t, 1, repo.count())
}

func TestIdempotency_OptionalWithoutKey(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0

	r := gin.New()
	r.POST("/stock-ins", withUser(uuid.New()), Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	perform(r, http.MethodPost, "/stock-ins", `{}`, nil)
	perform(r, http.MethodPost, "/stock-ins", `{}`, nil)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, repo.count())
}

func TestUserRateLimiter(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfig{Requests: 2, Window: time.Hour})
	defer rl.Close()

	alice, bob := uuid.New(), uuid.New()
	r := gin.New()
	r.GET("/alice", withUser(alice), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bob", withUser(bob), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/alice", "", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/alice", "", nil).Code)
	limited := perform(r, http.MethodGet, "/alice", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/bob", "", nil).Code)
	assert.Equal(t, 2, rl.Stats()["active_clients"])
}

func TestAuthRateLimiter(t *testing.T) {
	_, err := AuthRateLimiter("lots")
	assert.Error(t, err)

	limit, err := AuthRateLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/auth/login", limit, func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/auth/login", "", nil).Code)
	second := perform(r, http.MethodPost, "/auth/login", "", nil)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodPost, "/auth/login", "", nil).Code)
}

func TestLoggerMiddleware_ShortRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	var w *httptest.ResponseRecorder
	assert.NotPanics(t, func() {
		w = perform(r, http.MethodGet, "/health", "", map[string]string{"X-Request-ID": "abc"})
	})
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	w = perform(r, http.MethodGet, "/health", "", nil)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/invoices/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(r, http.MethodGet, "/invoices/42", "", nil)
	perform(r, http.MethodGet, "/nowhere", "", nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/invoices/:id",status="200"} 1`)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="unmatched",status="404"} 1`)
}
