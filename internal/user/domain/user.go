package domain

import (
	"context"
	"errors"
	"time"
)

// Role types
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailTaken     = errors.New("user with this email already exists")
	ErrBadCredentials = errors.New("invalid email or password")
)

// User represents an account. The password field holds a bcrypt hash
// and is never serialized.
type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Name      string    `json:"name" gorm:"not null"`
	Role      string    `json:"role" gorm:"not null;default:'user'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Count(ctx context.Context) (int64, error)
}
