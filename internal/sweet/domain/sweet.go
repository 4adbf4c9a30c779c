package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by the repository and surfaced by the
// inventory operations. All are terminal for a single operation;
// nothing is retried internally.
var (
	ErrNotFound             = errors.New("sweet not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity available")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
)

// Sweet represents a product in the shop. Quantity is the only field
// mutated by the inventory operations; descriptive fields are owned by
// the catalog writes.
type Sweet struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Category  string    `json:"category" gorm:"not null;index"`
	Price     float64   `json:"price" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Sweet) TableName() string {
	return "sweets"
}

// InStock reports whether any quantity is available for purchase.
func (s *Sweet) InStock() bool {
	return s.Quantity > 0
}

// SearchFilters are AND-combined; zero-valued filters are skipped.
// Price bounds are inclusive.
type SearchFilters struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// UpdateFields carries a partial catalog update. Nil fields are left
// untouched; an update with no fields set returns the current record.
type UpdateFields struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

// Empty reports whether no field is set.
func (u UpdateFields) Empty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.Quantity == nil
}

// SweetRepository defines the contract for sweet data access.
//
// TryDecrementQuantity and IncrementQuantity are the quantity store:
// each is a single atomic conditional update at the storage layer, and
// both refresh UpdatedAt as part of the same statement. The
// non-negativity invariant is enforced by the database, never by
// in-process locking.
type SweetRepository interface {
	Create(ctx context.Context, sweet *Sweet) error
	FindByID(ctx context.Context, id string) (*Sweet, error)
	FindAll(ctx context.Context) ([]Sweet, error)
	Search(ctx context.Context, filters SearchFilters) ([]Sweet, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Sweet, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	// TryDecrementQuantity applies quantity = quantity - amount only if
	// quantity >= amount at the moment of the update, returning the
	// post-update row. Fails with ErrNotFound or ErrInsufficientQuantity.
	TryDecrementQuantity(ctx context.Context, id string, amount int) (*Sweet, error)

	// IncrementQuantity applies quantity = quantity + amount with no
	// upper bound, returning the post-update row. Fails with ErrNotFound.
	IncrementQuantity(ctx context.Context, id string, amount int) (*Sweet, error)
}
