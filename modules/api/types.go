package api

import "time"

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// UserResponse represents a user response.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Attachments    []string   `json:"attachments,omitempty"`
	AssignedUserID *uint      `json:"assigned_user_id,omitempty"`
}

// UpdateTaskRequest represents a task update request. Absent fields keep
// their current value.
type UpdateTaskRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Attachments    []string   `json:"attachments,omitempty"`
	AssignedUserID *uint      `json:"assigned_user_id,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
