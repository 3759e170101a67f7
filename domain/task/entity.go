package task

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// ParseStatus parses a status string. The second return value reports
// whether the input was a known status; on unknown input the default
// StatusPending is returned so callers can log or reject the original
// value instead of silently accepting it.
func ParseStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return TaskStatus(s), true
	default:
		return StatusPending, false
	}
}

// ParsePriority parses a priority string. The second return value reports
// whether the input was a known priority; on unknown input the default
// PriorityMedium is returned.
func ParsePriority(s string) (TaskPriority, bool) {
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(s), true
	default:
		return PriorityMedium, false
	}
}

// Attachments is an ordered list of opaque attachment identifiers,
// stored as a JSON-encoded text column.
type Attachments []string

// Value implements driver.Valuer for database storage.
func (a Attachments) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attachments: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval.
func (a *Attachments) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported attachments column type %T", value)
	}
	if len(data) == 0 {
		*a = nil
		return nil
	}
	return json.Unmarshal(data, a)
}

// Task represents a tracked task. Every task has exactly one owner (the
// creator) and at most one assigned user.
type Task struct {
	ID             uint           `gorm:"primarykey"`
	Title          string         `gorm:"size:100;not null"`
	Description    string         `gorm:"size:500;not null"`
	Status         TaskStatus     `gorm:"size:20;not null"`
	Priority       TaskPriority   `gorm:"size:10;not null"`
	DueDate        *time.Time     `gorm:"index"`
	Attachments    Attachments    `gorm:"type:text"`
	OwnerID        uint           `gorm:"index;not null"`
	AssignedUserID *uint          `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
