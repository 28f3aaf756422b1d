package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"example.com/motormart/services/showroom/internal/cache"
	"example.com/motormart/services/showroom/internal/metrics"
	"example.com/motormart/services/showroom/internal/models"
	"example.com/motormart/services/showroom/internal/repositories"
)

// AdminService manages tenant accounts. Every operation here requires the
// admin role.
type AdminService struct {
	uow     repositories.UnitOfWork
	stores  repositories.Stores
	cache   *cache.RedisCache
	metrics *metrics.Metrics
}

// NewAdminService creates an admin service.
func NewAdminService(uow repositories.UnitOfWork, stores repositories.Stores, redisCache *cache.RedisCache, m *metrics.Metrics) *AdminService {
	return &AdminService{uow: uow, stores: stores, cache: redisCache, metrics: m}
}

// CreateTenantRequest is the decoded request body of POST /users.
type CreateTenantRequest struct {
	Username     string
	Password     string
	Role         string
	ShowroomName string
	CNIC         string
}

// CreateTenant registers a showroom (or admin) account.
func (s *AdminService) CreateTenant(ctx context.Context, caller models.Identity, req CreateTenantRequest) (*models.User, error) {
	if !caller.IsAdmin() {
		return nil, forbidden("only admins can create accounts")
	}
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return nil, invalidInput("username must be at least 3 characters")
	}
	if len(req.Password) < 8 {
		return nil, invalidInput("password must be at least 8 characters")
	}
	role := req.Role
	if role == "" {
		role = models.RoleShowroom
	}
	if role != models.RoleAdmin && role != models.RoleShowroom {
		return nil, invalidInput("role must be admin or showroom")
	}
	if role == models.RoleShowroom && strings.TrimSpace(req.ShowroomName) == "" {
		return nil, invalidInput("showroom name is required for showroom accounts")
	}
	if req.CNIC != "" && !models.ValidCNIC(req.CNIC) {
		return nil, invalidInput("CNIC must be in format 12345-1234567-1")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		ShowroomName: strings.TrimSpace(req.ShowroomName),
		CNIC:         req.CNIC,
	}

	err = s.uow.Do(ctx, func(tx repositories.Stores) error {
		existing, err := tx.Tenants.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflict("username already taken")
		}
		return tx.Tenants.Create(ctx, &user)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter("tenants_created")
	log.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("tenant account created")
	return &user, nil
}

// ListTenants returns every account.
func (s *AdminService) ListTenants(ctx context.Context, caller models.Identity) ([]models.User, error) {
	if !caller.IsAdmin() {
		return nil, forbidden("only admins can list accounts")
	}
	return s.stores.Tenants.List(ctx)
}

// DeleteTenant removes a showroom account and cascades across every
// vehicle category in one transaction, so no orphaned stock survives a
// partial failure. Admin accounts cannot be deleted through this path.
func (s *AdminService) DeleteTenant(ctx context.Context, caller models.Identity, id uuid.UUID) error {
	if !caller.IsAdmin() {
		return forbidden("only admins can delete accounts")
	}
	if id == caller.UserID {
		return invalidInput("cannot delete your own account")
	}

	var removed int64
	err := s.uow.Do(ctx, func(tx repositories.Stores) error {
		user, err := tx.Tenants.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound("account not found")
		}
		if user.Role == models.RoleAdmin {
			return forbidden("admin accounts cannot be deleted")
		}

		for _, cat := range models.Categories() {
			n, err := tx.Inventory.DeleteByShowroom(ctx, cat, id)
			if err != nil {
				return err
			}
			removed += n
		}
		return tx.Tenants.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, cache.TenantCacheKey(id)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate tenant cache entry")
	}

	s.metrics.IncrementCounter("tenants_deleted")
	log.Info().
		Str("user_id", id.String()).
		Int64("vehicles_removed", removed).
		Msg("tenant account deleted with stock cascade")
	return nil
}
