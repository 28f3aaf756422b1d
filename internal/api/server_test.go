package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/motormart/services/showroom/config"
	"example.com/motormart/services/showroom/internal/auth"
	"example.com/motormart/services/showroom/internal/metrics"
	"example.com/motormart/services/showroom/internal/models"
)

// The admin routes must be rejected by middleware before any handler or
// service runs; the nil services below would panic if a request got
// through.
func newGuardTestServer() *Server {
	cfg := config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Auth.JWTSecret = "test-secret"
	return NewServer(cfg, nil, nil, nil, nil, nil, metrics.NewMetrics())
}

func guardToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(&models.User{ID: uuid.New(), Role: role}, "test-secret", time.Hour)
	require.NoError(t, err)
	return token
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	server := newGuardTestServer()

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/users"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodDelete, "/api/v1/users/" + uuid.NewString()},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, nil)
		req.Header.Set("Authorization", "Bearer "+guardToken(t, models.RoleShowroom))
		server.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusForbidden, w.Code, "%s %s", route.method, route.path)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	server := newGuardTestServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	server.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
