package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	domain "github.com/example/task-management/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthModule provides authentication services.
type AuthModule struct {
	db      *gorm.DB
	service *AuthService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule() *AuthModule {
	// Use environment variable for DB path, default to local file
	dbPath := os.Getenv("USERS_DB_PATH")
	if dbPath == "" {
		dbPath = "users.db"
	}
	return &AuthModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	jwtManager := NewJWTManager(loadJWTConfig())

	m.service = NewAuthService(repo, hasher, jwtManager)

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"register": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "register", json.Unmarshal, json.Marshal, m.handleRegister)
		},
		"login": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		},
		"validate-token": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken)
		},
		"get-user": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser)
		},
		"list-users": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "list-users", json.Unmarshal, json.Marshal, m.handleListUsers)
		},
		"user-exists": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "user-exists", json.Unmarshal, json.Marshal, m.handleUserExists)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[auth] Registered services: register, login, validate-token, get-user, list-users, user-exists")
	return nil
}

// handleRegister handles user registration.
func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return RegisterResponse{}, err
	}

	return RegisterResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}, nil
}

// handleLogin handles user login.
func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	result, err := m.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		Token:     result.Token,
		TokenType: result.TokenType,
		ExpiresIn: result.ExpiresIn,
		ID:        result.User.ID,
		Username:  result.User.Username,
		Email:     result.User.Email,
		Role:      string(result.User.Role),
	}, nil
}

// handleValidateToken handles token validation.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil // Return response, not error, for validation failures
	}

	return ValidateTokenResponse{
		Valid:    true,
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     string(claims.Role),
	}, nil
}

// handleGetUser handles get user requests.
func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}

	return GetUserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}, nil
}

// handleListUsers handles user listing requests.
func (m *AuthModule) handleListUsers(ctx context.Context, _ ListUsersRequest, _ *mono.Msg) (ListUsersResponse, error) {
	users, err := m.service.ListUsers(ctx)
	if err != nil {
		return ListUsersResponse{}, err
	}

	resp := ListUsersResponse{
		Users: make([]UserSummary, 0, len(users)),
		Total: len(users),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, UserSummary{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     string(u.Role),
		})
	}
	return resp, nil
}

// handleUserExists handles user existence checks.
func (m *AuthModule) handleUserExists(ctx context.Context, req UserExistsRequest, _ *mono.Msg) (UserExistsResponse, error) {
	exists, err := m.service.UserExists(ctx, req.UserID)
	if err != nil {
		return UserExistsResponse{}, err
	}
	return UserExistsResponse{Exists: exists}, nil
}

// loadJWTConfig loads JWT configuration from environment variables.
func loadJWTConfig() JWTConfig {
	config := DefaultJWTConfig()

	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}

	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	if ttl := os.Getenv("JWT_TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Printf("[auth] Invalid JWT_TOKEN_TTL %q, keeping default %s", ttl, config.TokenTTL)
		} else {
			config.TokenTTL = d
		}
	}

	return config
}
