package user

import (
	"time"
)

// Role is the authorization role attached to a user account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole parses a role string. The second return value reports whether
// the input was a known role; on unknown input the default RoleUser is
// returned so callers can decide to log or reject the original value.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	default:
		return RoleUser, false
	}
}

// User represents a user account in the system.
type User struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"uniqueIndex;not null;size:50"`
	Email        string `gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string `gorm:"not null;type:text"`
	Role         Role   `gorm:"not null;size:20;default:USER"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims are the facts embedded in a signed session token.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Principal is the authenticated identity of the current request,
// derived from verified token claims. It is never persisted.
type Principal struct {
	ID       uint
	Username string
	Role     Role
}
