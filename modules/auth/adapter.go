package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-management/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID uint) (*domain.User, error)
	UserExists(ctx context.Context, userID uint) (bool, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// ValidateToken validates a session token and returns its claims.
// Verification failures come back as ErrExpiredToken or ErrInvalidToken so
// callers on the far side of the container keep the error distinction.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		if resp.Error == "token expired" {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	return &domain.Claims{
		UserID:   resp.UserID,
		Username: resp.Username,
		Role:     domain.Role(resp.Role),
	}, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID uint) (*domain.User, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}

	return &domain.User{
		ID:        resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
		Role:      domain.Role(resp.Role),
		CreatedAt: resp.CreatedAt,
	}, nil
}

// UserExists reports whether a user with the given ID exists.
func (a *AuthAdapter) UserExists(ctx context.Context, userID uint) (bool, error) {
	req := UserExistsRequest{UserID: userID}
	var resp UserExistsResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"user-exists",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return false, fmt.Errorf("user-exists request failed: %w", err)
	}

	return resp.Exists, nil
}
