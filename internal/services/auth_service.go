package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"example.com/motormart/services/showroom/config"
	"example.com/motormart/services/showroom/internal/auth"
	"example.com/motormart/services/showroom/internal/metrics"
	"example.com/motormart/services/showroom/internal/models"
	"example.com/motormart/services/showroom/internal/repositories"
)

// AuthService exchanges credentials for session tokens.
type AuthService struct {
	tenants repositories.TenantStore
	metrics *metrics.Metrics
	cfg     config.AuthConfig
}

// NewAuthService creates an auth service.
func NewAuthService(tenants repositories.TenantStore, m *metrics.Metrics, cfg config.AuthConfig) *AuthService {
	return &AuthService{tenants: tenants, metrics: m, cfg: cfg}
}

// LoginResult carries the signed token and the authenticated account.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and issues a token. Bad username and bad
// password produce the same error so the response never confirms which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalidInput("username and password are required")
	}

	user, err := s.tenants.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.metrics.IncrementCounter("login_failures")
		return nil, unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.IncrementCounter("login_failures")
		return nil, unauthorized("invalid credentials")
	}

	token, err := auth.GenerateToken(user, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter("logins")
	log.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("user logged in")
	return &LoginResult{Token: token, User: user}, nil
}
