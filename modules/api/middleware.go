package api

import (
	"errors"
	"strings"

	"github.com/example/task-management/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", errors.New("token is required")
	}
	return token, nil
}

// AuthMiddleware creates a middleware that validates session tokens.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing or malformed bearer token",
			})
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Token has expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: message,
			})
		}

		// Store claims in context for use in handlers
		c.Locals(UserContextKey, claims)

		return c.Next()
	}
}
