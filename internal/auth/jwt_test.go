package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/motormart/services/showroom/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "citymotors",
		Role:         models.RoleShowroom,
		ShowroomName: "City Motors",
	}

	token, err := GenerateToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	identity, err := ParseToken(token, "test-secret")
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.UserID)
	require.Equal(t, models.RoleShowroom, identity.Role)
	// A showroom account is its own tenant.
	require.Equal(t, user.ID, identity.ShowroomID)
	require.Equal(t, "City Motors", identity.ShowroomName)
}

func TestAdminTokenHasNoShowroom(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "root", Role: models.RoleAdmin}

	token, err := GenerateToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	identity, err := ParseToken(token, "test-secret")
	require.NoError(t, err)
	require.True(t, identity.IsAdmin())
	require.Equal(t, uuid.Nil, identity.ShowroomID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleShowroom}

	token, err := GenerateToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	require.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleShowroom}

	token, err := GenerateToken(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "test-secret")
	require.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", "test-secret")
	require.Error(t, err)
}
