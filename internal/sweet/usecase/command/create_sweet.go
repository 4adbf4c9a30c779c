package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// CreateSweetCommand represents the command to create a new sweet
type CreateSweetCommand struct {
	Name     string
	Category string
	Price    float64
	Quantity int
}

// CreateSweetHandler handles sweet creation command
type CreateSweetHandler struct {
	repo domain.SweetRepository
}

// NewCreateSweetHandler creates a new create sweet handler
func NewCreateSweetHandler(repo domain.SweetRepository) *CreateSweetHandler {
	return &CreateSweetHandler{repo: repo}
}

// Handle executes the create sweet command
func (h *CreateSweetHandler) Handle(ctx context.Context, cmd CreateSweetCommand) (*domain.Sweet, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(cmd.Category) == "" {
		return nil, fmt.Errorf("category is required")
	}
	if cmd.Price < 0 {
		return nil, fmt.Errorf("price must be a positive number")
	}
	if cmd.Quantity < 0 {
		return nil, fmt.Errorf("quantity must be a non-negative integer")
	}

	now := time.Now()
	sweet := &domain.Sweet{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(cmd.Name),
		Category:  strings.TrimSpace(cmd.Category),
		Price:     cmd.Price,
		Quantity:  cmd.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(ctx, sweet); err != nil {
		return nil, fmt.Errorf("failed to create sweet: %w", err)
	}

	return sweet, nil
}
