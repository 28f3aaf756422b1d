package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"example.com/motormart/services/showroom/internal/models"
)

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	Role         string    `json:"role"`
	ShowroomID   uuid.UUID `json:"showroomId"`
	ShowroomName string    `json:"showroomName,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the user.
func GenerateToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:         user.Role,
		ShowroomName: user.ShowroomName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if user.Role == models.RoleShowroom {
		claims.ShowroomID = user.ID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, errors.Wrap(err, "failed to sign token")
}

// ParseToken verifies a token and resolves the caller identity.
func ParseToken(tokenString, secret string) (models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.Identity{}, errors.Wrap(err, "invalid token")
	}
	if !token.Valid {
		return models.Identity{}, errors.New("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.Identity{}, errors.Wrap(err, "invalid token subject")
	}

	return models.Identity{
		UserID:       userID,
		Role:         claims.Role,
		ShowroomID:   claims.ShowroomID,
		ShowroomName: claims.ShowroomName,
	}, nil
}
