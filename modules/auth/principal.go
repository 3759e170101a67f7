package auth

import (
	"errors"

	domain "github.com/example/task-management/domain/user"
)

// ErrMalformedClaims is returned when verified token claims cannot be
// mapped onto a principal. Claims that passed token verification should
// always resolve; this failing indicates an internal consistency problem
// and must fail the request rather than fall back to a default identity.
var ErrMalformedClaims = errors.New("malformed token claims")

// ResolvePrincipal maps verified token claims onto the principal for the
// current request. The mapping is lossless and deterministic.
func ResolvePrincipal(claims *domain.Claims) (*domain.Principal, error) {
	if claims == nil || claims.UserID == 0 || claims.Username == "" {
		return nil, ErrMalformedClaims
	}
	if _, ok := domain.ParseRole(string(claims.Role)); !ok {
		return nil, ErrMalformedClaims
	}
	return &domain.Principal{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
