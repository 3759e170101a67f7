package task

import (
	"errors"

	domain "github.com/example/task-management/domain/task"
	"github.com/example/task-management/domain/user"
)

// Operation is a task operation subject to authorization.
type Operation int

const (
	OpList Operation = iota
	OpRead
	OpCreate
	OpUpdate
	OpDelete
	OpAssign
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpList:
		return "list"
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpAssign:
		return "assign"
	default:
		return "unknown"
	}
}

// Scope restricts which tasks a permitted operation may touch. The policy
// engine only returns the scope; the caller applies it to its query.
type Scope int

const (
	// ScopeOwn restricts the operation to tasks owned by the caller.
	ScopeOwn Scope = iota
	// ScopeAll grants the operation over every task.
	ScopeAll
)

// PolicyMode selects the access policy for the whole board. Exactly one
// mode governs every operation; modes are never mixed per operation.
type PolicyMode string

const (
	// PolicySharedBoard lets any authenticated user list, read, update,
	// delete and assign any task. Only creation binds an owner.
	PolicySharedBoard PolicyMode = "shared"
	// PolicyOwnerIsolated restricts every operation to tasks the caller
	// owns. Denials for foreign tasks are indistinguishable from the task
	// not existing.
	PolicyOwnerIsolated PolicyMode = "owner"
)

// ParsePolicyMode parses a policy mode string. The second return value
// reports whether the input was a known mode; on unknown input the default
// PolicySharedBoard is returned.
func ParsePolicyMode(s string) (PolicyMode, bool) {
	switch PolicyMode(s) {
	case PolicySharedBoard, PolicyOwnerIsolated:
		return PolicyMode(s), true
	default:
		return PolicySharedBoard, false
	}
}

// ErrForbidden is returned for denials where existence need not be hidden.
// The shared-board policy has no such denials today; the sentinel exists
// for role-restricted operations.
var ErrForbidden = errors.New("operation not permitted")

// PolicyEngine decides whether a principal may perform an operation on a
// task, and to what scope. It never queries storage itself.
type PolicyEngine struct {
	mode PolicyMode
}

// NewPolicyEngine creates a policy engine for the given mode.
func NewPolicyEngine(mode PolicyMode) *PolicyEngine {
	return &PolicyEngine{mode: mode}
}

// Mode returns the configured policy mode.
func (e *PolicyEngine) Mode() PolicyMode {
	return e.mode
}

// Authorize evaluates the operation for the principal against the target
// task. List and Create take no target; for them the returned scope tells
// the caller what its subsequent query or ownership binding is restricted
// to. Under PolicyOwnerIsolated any operation against a task not owned by
// the principal is denied with ErrTaskNotFound, hiding its existence.
func (e *PolicyEngine) Authorize(p *user.Principal, op Operation, target *domain.Task) (Scope, error) {
	if p == nil {
		return ScopeOwn, ErrForbidden
	}

	switch op {
	case OpList:
		if e.mode == PolicySharedBoard {
			return ScopeAll, nil
		}
		return ScopeOwn, nil

	case OpCreate:
		// Creation only requires an authenticated principal; the caller
		// binds the principal as owner.
		return ScopeOwn, nil

	case OpRead, OpUpdate, OpDelete, OpAssign:
		if target == nil {
			return ScopeOwn, ErrTaskNotFound
		}
		if e.mode == PolicySharedBoard {
			return ScopeAll, nil
		}
		if target.OwnerID != p.ID {
			return ScopeOwn, ErrTaskNotFound
		}
		return ScopeOwn, nil

	default:
		return ScopeOwn, ErrForbidden
	}
}
