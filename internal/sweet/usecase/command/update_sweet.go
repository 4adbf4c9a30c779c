package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// UpdateSweetCommand represents a partial update of catalog fields.
// Nil fields are left untouched.
type UpdateSweetCommand struct {
	ID       string
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

// UpdateSweetHandler handles sweet update command
type UpdateSweetHandler struct {
	repo domain.SweetRepository
}

// NewUpdateSweetHandler creates a new update sweet handler
func NewUpdateSweetHandler(repo domain.SweetRepository) *UpdateSweetHandler {
	return &UpdateSweetHandler{repo: repo}
}

// Handle executes the update sweet command
func (h *UpdateSweetHandler) Handle(ctx context.Context, cmd UpdateSweetCommand) (*domain.Sweet, error) {
	if cmd.ID == "" {
		return nil, fmt.Errorf("sweet id is required")
	}
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	if cmd.Category != nil && strings.TrimSpace(*cmd.Category) == "" {
		return nil, fmt.Errorf("category must not be empty")
	}
	if cmd.Price != nil && *cmd.Price < 0 {
		return nil, fmt.Errorf("price must be a positive number")
	}
	if cmd.Quantity != nil && *cmd.Quantity < 0 {
		return nil, fmt.Errorf("quantity must be a non-negative integer")
	}

	sweet, err := h.repo.Update(ctx, cmd.ID, domain.UpdateFields{
		Name:     cmd.Name,
		Category: cmd.Category,
		Price:    cmd.Price,
		Quantity: cmd.Quantity,
	})
	if err != nil {
		return nil, err
	}

	return sweet, nil
}
