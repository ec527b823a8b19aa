// Package auth issues and verifies the HS256 bearer tokens that guard the
// admin surfaces.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/retailku/order-admin/pkg/config"
	apperrors "github.com/retailku/order-admin/pkg/errors"
)

// RoleAdmin is the only role allowed to use the admin view.
const RoleAdmin = "admin"

// Claims represents the JWT claims
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
}

// Manager handles JWT operations
type Manager struct {
	config *config.JWTConfig
}

// NewManager creates a new JWT manager
func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{config: cfg}
}

// Enabled reports whether a signing secret is configured.
func (m *Manager) Enabled() bool {
	return m.config.Secret != ""
}

// GenerateAccessToken signs a token for subject with the given role.
func (m *Manager) GenerateAccessToken(subject, name, role string) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(m.config.AccessExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Name: name,
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ValidateAccessToken validates an access token and returns the claims
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.config.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.TokenExpired()
		}
		return nil, apperrors.TokenInvalid()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.TokenInvalid()
	}

	return claims, nil
}
