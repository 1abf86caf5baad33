package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/tiergate/degrade"
)

func newAuthedServer(t *testing.T, secret string) *Server {
	t.Helper()

	brk, err := degrade.New(&degrade.Config{Driver: degrade.DriverStandalone})
	require.NoError(t, err)
	t.Cleanup(func() { _ = brk.Close() })

	srv, err := New(&Config{Mode: gin.TestMode, AdminSecret: secret}, brk)
	require.NoError(t, err)
	return srv
}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminAuth(t *testing.T) {
	const secret = "test-secret"

	t.Run("无令牌返回401", func(t *testing.T) {
		srv := newAuthedServer(t, secret)

		req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("错误签名返回401", func(t *testing.T) {
		srv := newAuthedServer(t, secret)

		req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret"))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("过期令牌返回401", func(t *testing.T) {
		srv := newAuthedServer(t, secret)

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "ops",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(secret))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("有效令牌放行", func(t *testing.T) {
		srv := newAuthedServer(t, secret)

		req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, secret))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("未配置密钥时不鉴权", func(t *testing.T) {
		srv := newAuthedServer(t, "")

		req := httptest.NewRequest(http.MethodPost, "/admin/reset", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("自动生成请求ID", func(t *testing.T) {
		srv, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("透传已有请求ID", func(t *testing.T) {
		srv, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
		req.Header.Set("X-Request-ID", "req-abc-123")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, "req-abc-123", w.Header().Get("X-Request-ID"))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	brk, err := degrade.New(&degrade.Config{Driver: degrade.DriverStandalone})
	require.NoError(t, err)
	defer brk.Close()

	reg := newTestRegistry(t)
	srv, err := New(&Config{Mode: gin.TestMode}, brk, WithRegistry(reg))
	require.NoError(t, err)

	// 先产生一次调用，再抓取指标
	req := httptest.NewRequest(http.MethodPost, "/api/invoke", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tiergate_http_invokes_total")
}
