package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"example.com/motormart/services/showroom/config"
	"example.com/motormart/services/showroom/internal/metrics"
	"example.com/motormart/services/showroom/internal/models"
	"example.com/motormart/services/showroom/internal/services"
)

// singleUserStore serves one account, enough to drive the login endpoint.
type singleUserStore struct {
	user models.User
}

func (s *singleUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user.ID == id {
		u := s.user
		return &u, nil
	}
	return nil, nil
}

func (s *singleUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.user.Username == username {
		u := s.user
		return &u, nil
	}
	return nil, nil
}

func (s *singleUserStore) Create(ctx context.Context, u *models.User) error { return nil }
func (s *singleUserStore) Delete(ctx context.Context, id uuid.UUID) error   { return nil }
func (s *singleUserStore) List(ctx context.Context) ([]models.User, error)  { return nil, nil }

func newLoginRouter(t *testing.T) *gin.Engine {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("swordfish-42"), bcrypt.MinCost)
	require.NoError(t, err)

	authService := services.NewAuthService(
		&singleUserStore{user: models.User{
			ID:           uuid.New(),
			Username:     "citymotors",
			PasswordHash: string(hash),
			Role:         models.RoleShowroom,
			ShowroomName: "City Motors",
		}},
		metrics.NewMetrics(),
		config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAuthHandler(authService).RegisterRoutes(router)
	return router
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLoginEndpointSuccess(t *testing.T) {
	router := newLoginRouter(t)

	w := postLogin(router, `{"username":"citymotors","password":"swordfish-42"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"token"`)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router := newLoginRouter(t)

	// No identity was established, so the answer is 401, not 403.
	w := postLogin(router, `{"username":"citymotors","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postLogin(router, `{"username":"nobody","password":"swordfish-42"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginEndpointMalformedBody(t *testing.T) {
	router := newLoginRouter(t)

	w := postLogin(router, `{"username":"citymotors"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
