package task

import (
	"errors"
	"fmt"

	domain "github.com/example/task-management/domain/task"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when a task is not found. Under the
// owner-isolated policy it is also the shape of every denial for a task
// the caller does not own, so existence is never revealed.
var ErrTaskNotFound = errors.New("task not found")

// Repository provides access to task storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task to the database.
func (r *Repository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(id uint) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindAllForUser retrieves all tasks owned by the given user.
func (r *Repository) FindAllForUser(userID uint) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.Where("owner_id = ?", userID).Order("created_at").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks for user: %w", err)
	}
	return tasks, nil
}

// FindAll retrieves all tasks.
func (r *Repository) FindAll() ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.Order("created_at").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// Update updates an existing task.
func (r *Repository) Update(task *domain.Task) error {
	result := r.db.Save(task)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by ID (soft delete).
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
