package task

import (
	"context"
	"errors"
	"testing"

	"github.com/example/task-management/domain/user"
	"github.com/example/task-management/modules/auth"
)

// fakeAuthPort implements auth.AuthPort against fixed fixtures.
type fakeAuthPort struct {
	claims map[string]*user.Claims
	errs   map[string]error
	users  map[uint]*user.User
}

func (f *fakeAuthPort) ValidateToken(_ context.Context, token string) (*user.Claims, error) {
	if err, ok := f.errs[token]; ok {
		return nil, err
	}
	if claims, ok := f.claims[token]; ok {
		return claims, nil
	}
	return nil, auth.ErrInvalidToken
}

func (f *fakeAuthPort) GetUser(_ context.Context, userID uint) (*user.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

func (f *fakeAuthPort) UserExists(_ context.Context, userID uint) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func newFakeAuthPort() *fakeAuthPort {
	return &fakeAuthPort{
		claims: map[string]*user.Claims{
			"alice-token": {UserID: 1, Username: "alice", Role: user.RoleUser},
			"bob-token":   {UserID: 2, Username: "bob", Role: user.RoleUser},
		},
		errs: map[string]error{
			"expired-token": auth.ErrExpiredToken,
		},
		users: map[uint]*user.User{
			1: {ID: 1, Username: "alice", Email: "alice@example.com", Role: user.RoleUser},
			2: {ID: 2, Username: "bob", Email: "bob@example.com", Role: user.RoleUser},
		},
	}
}

func newTestAuthorizer(t *testing.T, mode PolicyMode) (*Authorizer, *Repository) {
	t.Helper()

	repo := NewRepository(setupTestDB(t))
	authorizer := NewAuthorizer(newFakeAuthPort(), repo, NewPolicyEngine(mode))
	return authorizer, repo
}

func TestAuthorizer_TokenFailuresShortCircuit(t *testing.T) {
	authorizer, _ := newTestAuthorizer(t, PolicySharedBoard)
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "empty token",
			token:   "",
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:    "unknown token",
			token:   "garbage",
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:    "expired token",
			token:   "expired-token",
			wantErr: auth.ErrExpiredToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authorizer.AuthorizeRequest(ctx, tt.token, OpRead, 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AuthorizeRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorizer_MalformedClaims(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	port := newFakeAuthPort()
	// Claims that verification should never produce
	port.claims["broken-token"] = &user.Claims{UserID: 0, Username: "", Role: user.RoleUser}
	authorizer := NewAuthorizer(port, repo, NewPolicyEngine(PolicySharedBoard))

	_, err := authorizer.AuthorizeRequest(context.Background(), "broken-token", OpList, 0)
	if !errors.Is(err, auth.ErrMalformedClaims) {
		t.Errorf("AuthorizeRequest() error = %v, want ErrMalformedClaims", err)
	}
}

func TestAuthorizer_MissingTask(t *testing.T) {
	authorizer, _ := newTestAuthorizer(t, PolicySharedBoard)

	_, err := authorizer.AuthorizeRequest(context.Background(), "alice-token", OpRead, 404)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("AuthorizeRequest() error = %v, want ErrTaskNotFound", err)
	}
}

func TestAuthorizer_SharedBoardForeignTask(t *testing.T) {
	authorizer, repo := newTestAuthorizer(t, PolicySharedBoard)
	ctx := context.Background()

	owned := newTask(1, "Alice's task")
	if err := repo.Create(owned); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Bob may read, update and delete Alice's task
	for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
		authz, err := authorizer.AuthorizeRequest(ctx, "bob-token", op, owned.ID)
		if err != nil {
			t.Fatalf("AuthorizeRequest(%s) error = %v", op, err)
		}
		if authz.Scope != ScopeAll {
			t.Errorf("scope = %v, want ScopeAll", authz.Scope)
		}
		if authz.Task == nil || authz.Task.ID != owned.ID {
			t.Error("authorized context is missing the target task")
		}
	}
}

func TestAuthorizer_OwnerIsolatedHidesForeignTasks(t *testing.T) {
	authorizer, repo := newTestAuthorizer(t, PolicyOwnerIsolated)
	ctx := context.Background()

	owned := newTask(1, "Alice's task")
	if err := repo.Create(owned); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The denial for an existing foreign task must be identical to the
	// error for a task that does not exist at all.
	for _, op := range []Operation{OpRead, OpUpdate, OpDelete, OpAssign} {
		_, errForeign := authorizer.AuthorizeRequest(ctx, "bob-token", op, owned.ID)
		_, errAbsent := authorizer.AuthorizeRequest(ctx, "bob-token", op, 9999)

		if !errors.Is(errForeign, ErrTaskNotFound) {
			t.Errorf("%s: foreign task error = %v, want ErrTaskNotFound", op, errForeign)
		}
		if errForeign.Error() != errAbsent.Error() {
			t.Errorf("%s: foreign denial %q differs from absent denial %q", op, errForeign, errAbsent)
		}
	}

	// The owner still has full access
	if _, err := authorizer.AuthorizeRequest(ctx, "alice-token", OpUpdate, owned.ID); err != nil {
		t.Errorf("owner AuthorizeRequest() error = %v", err)
	}
}

func TestAuthorizer_PrincipalCarriedThrough(t *testing.T) {
	authorizer, _ := newTestAuthorizer(t, PolicySharedBoard)

	authz, err := authorizer.AuthorizeRequest(context.Background(), "alice-token", OpCreate, 0)
	if err != nil {
		t.Fatalf("AuthorizeRequest() error = %v", err)
	}

	if authz.Principal.ID != 1 || authz.Principal.Username != "alice" {
		t.Errorf("principal = %+v, want alice (id 1)", authz.Principal)
	}
	if authz.Task != nil {
		t.Error("create must not carry a target task")
	}
}
