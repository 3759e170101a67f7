package task

import "time"

// ListTasksRequest is the request for listing tasks visible to the caller.
type ListTasksRequest struct {
	Token string `json:"token"`
}

// ListTasksResponse is the response for a task listing.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// GetTaskRequest is the request for fetching a single task.
type GetTaskRequest struct {
	Token string `json:"token"`
	ID    uint   `json:"id"`
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Token          string     `json:"token"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Attachments    []string   `json:"attachments,omitempty"`
	AssignedUserID *uint      `json:"assigned_user_id,omitempty"`
}

// UpdateTaskRequest is the request for updating a task. Nil fields are
// left unchanged.
type UpdateTaskRequest struct {
	Token          string     `json:"token"`
	ID             uint       `json:"id"`
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Attachments    []string   `json:"attachments,omitempty"`
	AssignedUserID *uint      `json:"assigned_user_id,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	Token string `json:"token"`
	ID    uint   `json:"id"`
}

// DeleteTaskResponse is the response after deleting a task.
type DeleteTaskResponse struct {
	ID      uint `json:"id"`
	Deleted bool `json:"deleted"`
}

// TaskResponse is the outward representation of a task.
type TaskResponse struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	Attachments      []string   `json:"attachments,omitempty"`
	OwnerID          uint       `json:"owner_id"`
	AssignedUserID   *uint      `json:"assigned_user_id,omitempty"`
	AssignedUsername string     `json:"assigned_username,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
