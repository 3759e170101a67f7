package task

import (
	"errors"
	"testing"

	domain "github.com/example/task-management/domain/task"
	"github.com/example/task-management/domain/user"
)

func TestPolicyEngine_SharedBoard(t *testing.T) {
	engine := NewPolicyEngine(PolicySharedBoard)
	caller := &user.Principal{ID: 1, Username: "alice", Role: user.RoleUser}
	foreign := &domain.Task{ID: 10, OwnerID: 2}

	t.Run("list covers the whole board", func(t *testing.T) {
		scope, err := engine.Authorize(caller, OpList, nil)
		if err != nil {
			t.Fatalf("Authorize() error = %v", err)
		}
		if scope != ScopeAll {
			t.Errorf("scope = %v, want ScopeAll", scope)
		}
	})

	t.Run("create only needs a principal", func(t *testing.T) {
		if _, err := engine.Authorize(caller, OpCreate, nil); err != nil {
			t.Errorf("Authorize() error = %v", err)
		}
	})

	// Any authenticated user may touch any task
	for _, op := range []Operation{OpRead, OpUpdate, OpDelete, OpAssign} {
		t.Run("foreign task "+op.String(), func(t *testing.T) {
			scope, err := engine.Authorize(caller, op, foreign)
			if err != nil {
				t.Fatalf("Authorize() error = %v", err)
			}
			if scope != ScopeAll {
				t.Errorf("scope = %v, want ScopeAll", scope)
			}
		})
	}
}

func TestPolicyEngine_OwnerIsolated(t *testing.T) {
	engine := NewPolicyEngine(PolicyOwnerIsolated)
	caller := &user.Principal{ID: 1, Username: "alice", Role: user.RoleUser}
	own := &domain.Task{ID: 10, OwnerID: 1}
	foreign := &domain.Task{ID: 11, OwnerID: 2}

	t.Run("list restricted to own tasks", func(t *testing.T) {
		scope, err := engine.Authorize(caller, OpList, nil)
		if err != nil {
			t.Fatalf("Authorize() error = %v", err)
		}
		if scope != ScopeOwn {
			t.Errorf("scope = %v, want ScopeOwn", scope)
		}
	})

	for _, op := range []Operation{OpRead, OpUpdate, OpDelete, OpAssign} {
		t.Run("own task "+op.String(), func(t *testing.T) {
			if _, err := engine.Authorize(caller, op, own); err != nil {
				t.Errorf("Authorize() error = %v", err)
			}
		})

		// Foreign tasks are denied with the not-found shape so their
		// existence is never revealed.
		t.Run("foreign task "+op.String(), func(t *testing.T) {
			_, err := engine.Authorize(caller, op, foreign)
			if !errors.Is(err, ErrTaskNotFound) {
				t.Errorf("Authorize() error = %v, want ErrTaskNotFound", err)
			}
			if errors.Is(err, ErrForbidden) {
				t.Error("denial must not be forbidden-shaped")
			}
		})
	}
}

func TestPolicyEngine_NilPrincipal(t *testing.T) {
	for _, mode := range []PolicyMode{PolicySharedBoard, PolicyOwnerIsolated} {
		engine := NewPolicyEngine(mode)
		_, err := engine.Authorize(nil, OpList, nil)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("mode %s: Authorize(nil principal) error = %v, want ErrForbidden", mode, err)
		}
	}
}

func TestParsePolicyMode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  PolicyMode
		valid bool
	}{
		{
			name:  "shared",
			input: "shared",
			want:  PolicySharedBoard,
			valid: true,
		},
		{
			name:  "owner",
			input: "owner",
			want:  PolicyOwnerIsolated,
			valid: true,
		},
		{
			name:  "unknown falls back to shared",
			input: "mixed",
			want:  PolicySharedBoard,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, valid := ParsePolicyMode(tt.input)
			if got != tt.want || valid != tt.valid {
				t.Errorf("ParsePolicyMode(%q) = (%v, %v), want (%v, %v)", tt.input, got, valid, tt.want, tt.valid)
			}
		})
	}
}
