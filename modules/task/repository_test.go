package task

import (
	"errors"
	"testing"
	"time"

	domain "github.com/example/task-management/domain/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTask(owner uint, title string) *domain.Task {
	return &domain.Task{
		Title:       title,
		Description: "some work",
		Status:      domain.StatusPending,
		Priority:    domain.PriorityMedium,
		OwnerID:     owner,
	}
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	due := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	task := newTask(1, "Write report")
	task.DueDate = &due
	task.Attachments = domain.Attachments{"report.pdf"}

	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.ID == 0 {
		t.Fatal("Create() did not assign an ID")
	}

	found, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "Write report" {
		t.Errorf("found.Title = %q, want %q", found.Title, "Write report")
	}
	if found.OwnerID != 1 {
		t.Errorf("found.OwnerID = %v, want 1", found.OwnerID)
	}
	if len(found.Attachments) != 1 || found.Attachments[0] != "report.pdf" {
		t.Errorf("found.Attachments = %v, want [report.pdf]", found.Attachments)
	}
	if found.UpdatedAt.Before(found.CreatedAt) {
		t.Error("UpdatedAt is before CreatedAt")
	}
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	_, err := repo.FindByID(12345)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("FindByID() error = %v, want ErrTaskNotFound", err)
	}
}

func TestRepository_FindAllForUser(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for _, task := range []*domain.Task{
		newTask(1, "Task A"),
		newTask(1, "Task B"),
		newTask(2, "Task C"),
	} {
		if err := repo.Create(task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tasks, err := repo.FindAllForUser(1)
	if err != nil {
		t.Fatalf("FindAllForUser() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 tasks for user 1, got %d", len(tasks))
	}

	all, err := repo.FindAll()
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 tasks in total, got %d", len(all))
	}
}

func TestRepository_Update(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	task := newTask(1, "Original")
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	task.Title = "Updated"
	task.Status = domain.StatusInProgress
	assignee := uint(2)
	task.AssignedUserID = &assignee

	if err := repo.Update(task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := repo.FindByID(task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "Updated" {
		t.Errorf("found.Title = %q, want %q", found.Title, "Updated")
	}
	if found.Status != domain.StatusInProgress {
		t.Errorf("found.Status = %v, want %v", found.Status, domain.StatusInProgress)
	}
	if found.AssignedUserID == nil || *found.AssignedUserID != 2 {
		t.Errorf("found.AssignedUserID = %v, want 2", found.AssignedUserID)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	task := newTask(1, "To be deleted")
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("delete existing task", func(t *testing.T) {
		if err := repo.Delete(task.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		_, err := repo.FindByID(task.ID)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("FindByID() after delete error = %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("delete non-existent task", func(t *testing.T) {
		err := repo.Delete(99999)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("Delete() error = %v, want ErrTaskNotFound", err)
		}
	})
}
