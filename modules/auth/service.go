package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"

	domain "github.com/example/task-management/domain/user"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	// The message never distinguishes unknown-user from wrong-password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidUsername is returned when the username is missing or too short.
	ErrInvalidUsername = errors.New("username must be at least 3 characters")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when password is too weak.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
)

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresIn int64
	User      *domain.User
}

// AuthService handles authentication business logic.
type AuthService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new user account. Username and email uniqueness are
// checked separately so the caller can report the conflicting field.
func (s *AuthService) Register(_ context.Context, username, email, password, role string) (*domain.User, error) {
	if len(username) < 3 {
		return nil, ErrInvalidUsername
	}

	// Validate email using standard library
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	// Validate password length (bcrypt has 72-byte limit)
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	taken, err := s.repo.UsernameExists(username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.repo.EmailExists(email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	userRole := domain.RoleUser
	if role != "" {
		parsed, ok := domain.ParseRole(role)
		if !ok {
			log.Printf("[auth] Unknown role %q in registration, defaulting to %s", role, domain.RoleUser)
		}
		userRole = parsed
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         userRole,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and issues a session token.
func (s *AuthService) Login(_ context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(&domain.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.jwt.TokenTTL(),
		User:      user,
	}, nil
}

// ValidateToken verifies a session token and returns its claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	return s.jwt.ValidateToken(token)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(_ context.Context, userID uint) (*domain.User, error) {
	return s.repo.FindByID(userID)
}

// ListUsers retrieves all registered users.
func (s *AuthService) ListUsers(_ context.Context) ([]*domain.User, error) {
	return s.repo.FindAll()
}

// UserExists reports whether a user with the given ID exists.
func (s *AuthService) UserExists(_ context.Context, userID uint) (bool, error) {
	return s.repo.IDExists(userID)
}
