package auth

import (
	"errors"
	"time"

	domain "github.com/example/task-management/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when the token signature or structure is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// JWTConfig holds JWT configuration. The secret key is process-wide
// immutable state, loaded once at startup and never rotated during the
// process lifetime.
type JWTConfig struct {
	SecretKey string
	TokenTTL  time.Duration
	Issuer    string
}

// DefaultJWTConfig returns a default JWT configuration.
// In production, the secret key should be loaded from environment variables.
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey: "your-secret-key-change-in-production",
		TokenTTL:  24 * time.Hour,
		Issuer:    "task-management",
	}
}

// JWTClaims represents the custom claims for session tokens.
type JWTClaims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies signed session tokens.
type JWTManager struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTManager creates a new JWTManager with the given configuration.
func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{
		config: config,
		now:    time.Now,
	}
}

// GenerateToken signs a session token carrying the given identity claims.
// The token expires a fixed TTL after issuance.
func (m *JWTManager) GenerateToken(claims *domain.Claims) (string, error) {
	now := m.now()
	tokenClaims := JWTClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    m.config.Issuer,
			Subject:   claims.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// ValidateToken verifies a session token and returns the embedded claims.
// Signature integrity is checked before expiry: a tampered token is always
// rejected as invalid, never reported as expired. Verification is a pure
// function of the token, the signing key and the clock; there is no
// server-side token state and hence no revocation.
func (m *JWTManager) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &domain.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// TokenTTL returns the token lifetime in seconds.
func (m *JWTManager) TokenTTL() int64 {
	return int64(m.config.TokenTTL.Seconds())
}
