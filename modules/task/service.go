package task

import (
	"context"
	"errors"
	"log"

	domain "github.com/example/task-management/domain/task"
	"github.com/go-monolith/mono"
)

var (
	// ErrInvalidTitle is returned when the task title is missing or out of bounds.
	ErrInvalidTitle = errors.New("title must be between 3 and 100 characters")
	// ErrMissingDescription is returned when the task description is missing.
	ErrMissingDescription = errors.New("description is required")
	// ErrAssigneeNotFound is returned when the requested assignee does not
	// exist. Distinct from ErrTaskNotFound: the task exists, the user doesn't.
	ErrAssigneeNotFound = errors.New("assigned user not found")
)

// listTasks handles the task-list service request. The policy scope
// decides whether the query covers the whole board or only the caller's
// own tasks.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	authz, err := m.authorizer.AuthorizeRequest(ctx, req.Token, OpList, 0)
	if err != nil {
		return ListTasksResponse{}, err
	}

	var tasks []*domain.Task
	if authz.Scope == ScopeAll {
		tasks, err = m.repo.FindAll()
	} else {
		tasks, err = m.repo.FindAllForUser(authz.Principal.ID)
	}
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	usernames := map[uint]string{}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, m.toTaskResponse(ctx, t, usernames))
	}
	return resp, nil
}

// getTask handles the task-get service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.ID == 0 {
		return TaskResponse{}, ErrTaskNotFound
	}

	authz, err := m.authorizer.AuthorizeRequest(ctx, req.Token, OpRead, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}

	return m.toTaskResponse(ctx, authz.Task, nil), nil
}

// createTask handles the task-create service request. The caller becomes
// the owner of the created task.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	authz, err := m.authorizer.AuthorizeRequest(ctx, req.Token, OpCreate, 0)
	if err != nil {
		return TaskResponse{}, err
	}

	if len(req.Title) < 3 || len(req.Title) > 100 {
		return TaskResponse{}, ErrInvalidTitle
	}
	if req.Description == "" {
		return TaskResponse{}, ErrMissingDescription
	}

	status := domain.StatusPending
	if req.Status != "" {
		parsed, ok := domain.ParseStatus(req.Status)
		if !ok {
			log.Printf("[task] Unknown status %q in create request, keeping %s", req.Status, parsed)
		}
		status = parsed
	}

	priority := domain.PriorityMedium
	if req.Priority != "" {
		parsed, ok := domain.ParsePriority(req.Priority)
		if !ok {
			log.Printf("[task] Unknown priority %q in create request, keeping %s", req.Priority, parsed)
		}
		priority = parsed
	}

	if req.AssignedUserID != nil {
		exists, err := m.auth.UserExists(ctx, *req.AssignedUserID)
		if err != nil {
			return TaskResponse{}, err
		}
		if !exists {
			return TaskResponse{}, ErrAssigneeNotFound
		}
	}

	t := &domain.Task{
		Title:          req.Title,
		Description:    req.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        req.DueDate,
		Attachments:    req.Attachments,
		OwnerID:        authz.Principal.ID,
		AssignedUserID: req.AssignedUserID,
	}

	if err := m.repo.Create(t); err != nil {
		return TaskResponse{}, err
	}

	return m.toTaskResponse(ctx, t, nil), nil
}

// updateTask handles the task-update service request. Nil fields keep
// their current value; an assignee change is additionally authorized as
// an assign operation and requires the assignee to exist.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.ID == 0 {
		return TaskResponse{}, ErrTaskNotFound
	}

	authz, err := m.authorizer.AuthorizeRequest(ctx, req.Token, OpUpdate, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	t := authz.Task

	if req.AssignedUserID != nil {
		if _, err := m.engine.Authorize(authz.Principal, OpAssign, t); err != nil {
			return TaskResponse{}, err
		}
		exists, err := m.auth.UserExists(ctx, *req.AssignedUserID)
		if err != nil {
			return TaskResponse{}, err
		}
		if !exists {
			return TaskResponse{}, ErrAssigneeNotFound
		}
	}

	if req.Title != nil {
		if len(*req.Title) < 3 || len(*req.Title) > 100 {
			return TaskResponse{}, ErrInvalidTitle
		}
		t.Title = *req.Title
	}
	if req.Description != nil {
		if *req.Description == "" {
			return TaskResponse{}, ErrMissingDescription
		}
		t.Description = *req.Description
	}
	if req.Status != nil {
		parsed, ok := domain.ParseStatus(*req.Status)
		if ok {
			t.Status = parsed
		} else {
			log.Printf("[task] Unknown status %q in update request, keeping %s", *req.Status, t.Status)
		}
	}
	if req.Priority != nil {
		parsed, ok := domain.ParsePriority(*req.Priority)
		if ok {
			t.Priority = parsed
		} else {
			log.Printf("[task] Unknown priority %q in update request, keeping %s", *req.Priority, t.Priority)
		}
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.Attachments != nil {
		t.Attachments = req.Attachments
	}
	if req.AssignedUserID != nil {
		t.AssignedUserID = req.AssignedUserID
	}

	if err := m.repo.Update(t); err != nil {
		return TaskResponse{}, err
	}

	return m.toTaskResponse(ctx, t, nil), nil
}

// deleteTask handles the task-delete service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if req.ID == 0 {
		return DeleteTaskResponse{}, ErrTaskNotFound
	}

	if _, err := m.authorizer.AuthorizeRequest(ctx, req.Token, OpDelete, req.ID); err != nil {
		return DeleteTaskResponse{}, err
	}

	if err := m.repo.Delete(req.ID); err != nil {
		return DeleteTaskResponse{ID: req.ID}, err
	}

	return DeleteTaskResponse{ID: req.ID, Deleted: true}, nil
}

// toTaskResponse converts a task entity to its outward representation,
// resolving the assignee's username through the auth module. The usernames
// map, when non-nil, caches lookups across one listing.
func (m *TaskModule) toTaskResponse(ctx context.Context, t *domain.Task, usernames map[uint]string) TaskResponse {
	resp := TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		DueDate:        t.DueDate,
		Attachments:    t.Attachments,
		OwnerID:        t.OwnerID,
		AssignedUserID: t.AssignedUserID,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}

	if t.AssignedUserID != nil {
		id := *t.AssignedUserID
		if usernames != nil {
			if name, ok := usernames[id]; ok {
				resp.AssignedUsername = name
				return resp
			}
		}
		u, err := m.auth.GetUser(ctx, id)
		if err != nil {
			log.Printf("[task] Failed to resolve assignee %d: %v", id, err)
			return resp
		}
		resp.AssignedUsername = u.Username
		if usernames != nil {
			usernames[id] = u.Username
		}
	}

	return resp
}
