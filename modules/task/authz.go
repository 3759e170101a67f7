package task

import (
	"context"

	domain "github.com/example/task-management/domain/task"
	"github.com/example/task-management/domain/user"
	"github.com/example/task-management/modules/auth"
)

// AuthorizedContext is the result of a successful authorization: the
// resolved principal, the scope the operation is restricted to, and the
// target task when one was named.
type AuthorizedContext struct {
	Principal *user.Principal
	Scope     Scope
	Task      *domain.Task
}

// Authorizer is the single authorization entry point for task operations.
// It chains token verification, principal resolution, target lookup and
// policy evaluation; any stage failure short-circuits to a denial with a
// stage-specific error and no partial side effects.
type Authorizer struct {
	auth   auth.AuthPort
	repo   *Repository
	engine *PolicyEngine
}

// NewAuthorizer creates an Authorizer.
func NewAuthorizer(authPort auth.AuthPort, repo *Repository, engine *PolicyEngine) *Authorizer {
	return &Authorizer{
		auth:   authPort,
		repo:   repo,
		engine: engine,
	}
}

// AuthorizeRequest verifies the bearer token, resolves the principal,
// fetches the target task if taskID is non-zero and evaluates the policy.
// Denial errors: auth.ErrInvalidToken, auth.ErrExpiredToken,
// auth.ErrMalformedClaims, ErrTaskNotFound, ErrForbidden.
func (a *Authorizer) AuthorizeRequest(ctx context.Context, token string, op Operation, taskID uint) (*AuthorizedContext, error) {
	if token == "" {
		return nil, auth.ErrInvalidToken
	}

	claims, err := a.auth.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	principal, err := auth.ResolvePrincipal(claims)
	if err != nil {
		return nil, err
	}

	var target *domain.Task
	if taskID != 0 {
		target, err = a.repo.FindByID(taskID)
		if err != nil {
			return nil, err
		}
	}

	scope, err := a.engine.Authorize(principal, op, target)
	if err != nil {
		return nil, err
	}

	return &AuthorizedContext{
		Principal: principal,
		Scope:     scope,
		Task:      target,
	}, nil
}
