package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/task-management/domain/task"
	"github.com/example/task-management/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides task tracking services guarded by the access policy.
type TaskModule struct {
	db         *gorm.DB
	repo       *Repository
	engine     *PolicyEngine
	authorizer *Authorizer
	auth       auth.AuthPort
	dbPath     string
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.DependentModule = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule.
func NewModule() *TaskModule {
	dbPath := os.Getenv("TASKS_DB_PATH")
	if dbPath == "" {
		dbPath = "tasks.db"
	}
	return &TaskModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Dependencies returns the list of module dependencies.
func (m *TaskModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *TaskModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.auth = auth.NewAuthAdapter(container)
	}
}

// Start initializes the task module.
func (m *TaskModule) Start(_ context.Context) error {
	if m.auth == nil {
		return fmt.Errorf("auth dependency not set")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.repo = NewRepository(db)
	m.engine = NewPolicyEngine(loadPolicyMode())
	m.authorizer = NewAuthorizer(m.auth, m.repo, m.engine)

	log.Printf("[task] Module started (database: %s, policy: %s)", m.dbPath, m.engine.Mode())
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
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
			"policy":   string(m.engine.Mode()),
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"task-list": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task-list", json.Unmarshal, json.Marshal, m.listTasks)
		},
		"task-get": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task-get", json.Unmarshal, json.Marshal, m.getTask)
		},
		"task-create": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task-create", json.Unmarshal, json.Marshal, m.createTask)
		},
		"task-update": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task-update", json.Unmarshal, json.Marshal, m.updateTask)
		},
		"task-delete": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "task-delete", json.Unmarshal, json.Marshal, m.deleteTask)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[task] Registered services: task-list, task-get, task-create, task-update, task-delete")
	return nil
}

// loadPolicyMode loads the access policy mode from the environment.
func loadPolicyMode() PolicyMode {
	raw := os.Getenv("ACCESS_POLICY")
	if raw == "" {
		return PolicySharedBoard
	}
	mode, ok := ParsePolicyMode(raw)
	if !ok {
		log.Printf("[task] Unknown ACCESS_POLICY %q, keeping default %s", raw, mode)
	}
	return mode
}
