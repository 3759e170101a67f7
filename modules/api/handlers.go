package api

import (
	"encoding/json"
	"log"
	"strings"

	domain "github.com/example/task-management/domain/user"
	"github.com/example/task-management/modules/auth"
	"github.com/example/task-management/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	taskContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, taskContainer mono.ServiceContainer, authAdapter auth.AuthPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		taskContainer: taskContainer,
		authAdapter:   authAdapter,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username, email and password are required",
		})
	}

	authReq := auth.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	var resp auth.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"register",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
		Role:      resp.Role,
		CreatedAt: resp.CreatedAt,
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username and password are required",
		})
	}

	authReq := auth.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	}
	var resp auth.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"login",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Token:     resp.Token,
		TokenType: resp.TokenType,
		ExpiresIn: resp.ExpiresIn,
		ID:        resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
		Role:      resp.Role,
	})
}

// Profile handles getting the current user's profile.
// This is a protected endpoint that requires a valid session token.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	user, err := h.authAdapter.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to retrieve user profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	})
}

// ListUsers handles listing all users, used by the task assignee picker.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	var resp auth.ListUsersResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"list-users",
		json.Marshal,
		json.Unmarshal,
		&auth.ListUsersRequest{},
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// ListTasks handles listing tasks visible to the caller.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var resp task.ListTasksResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"task-list",
		json.Marshal,
		json.Unmarshal,
		&task.ListTasksRequest{Token: token},
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTask handles fetching a single task.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return unauthorized(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badID(c)
	}

	var resp task.TaskResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"task-get",
		json.Marshal,
		json.Unmarshal,
		&task.GetTaskRequest{Token: token, ID: uint(id)},
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateTask handles task creation.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	var resp task.TaskResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"task-create",
		json.Marshal,
		json.Unmarshal,
		&task.CreateTaskRequest{
			Token:          token,
			Title:          req.Title,
			Description:    req.Description,
			Status:         req.Status,
			Priority:       req.Priority,
			DueDate:        req.DueDate,
			Attachments:    req.Attachments,
			AssignedUserID: req.AssignedUserID,
		},
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateTask handles task updates.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return unauthorized(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badID(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	var resp task.TaskResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"task-update",
		json.Marshal,
		json.Unmarshal,
		&task.UpdateTaskRequest{
			Token:          token,
			ID:             uint(id),
			Title:          req.Title,
			Description:    req.Description,
			Status:         req.Status,
			Priority:       req.Priority,
			DueDate:        req.DueDate,
			Attachments:    req.Attachments,
			AssignedUserID: req.AssignedUserID,
		},
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask handles task deletion.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return unauthorized(c, err)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badID(c)
	}

	var resp task.DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"task-delete",
		json.Marshal,
		json.Unmarshal,
		&task.DeleteTaskRequest{Token: token, ID: uint(id)},
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func unauthorized(c *fiber.Ctx, _ error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "Missing or malformed bearer token",
	})
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: "Invalid task id",
	})
}

// handleAuthError maps auth service errors to HTTP responses. Errors cross
// the service container as strings, so known error messages are matched;
// anything unrecognized is logged and reported generically.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid username or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid username or password",
		})
	case strings.Contains(errStr, "username is already taken"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Username is already taken",
		})
	case strings.Contains(errStr, "email is already in use"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Email is already in use",
		})
	case strings.Contains(errStr, "username must be"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username must be at least 3 characters",
		})
	case strings.Contains(errStr, "invalid email format"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid email format",
		})
	case strings.Contains(errStr, "password must be at least"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Password must be at least 8 characters",
		})
	case strings.Contains(errStr, "password must be at most"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Password must be at most 72 characters",
		})
	default:
		// Log the actual error but don't expose it to the client
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// handleTaskError maps task service errors to HTTP responses.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "token has expired"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Token has expired",
		})
	case strings.Contains(errStr, "invalid token"),
		strings.Contains(errStr, "malformed token claims"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid token",
		})
	case strings.Contains(errStr, "assigned user not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Assigned user not found",
		})
	case strings.Contains(errStr, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(errStr, "operation not permitted"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Operation not permitted",
		})
	case strings.Contains(errStr, "title must be"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Title must be between 3 and 100 characters",
		})
	case strings.Contains(errStr, "description is required"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Description is required",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
