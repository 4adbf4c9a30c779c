package command

import (
	"context"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// RestockSweetCommand represents the command to replenish stock
type RestockSweetCommand struct {
	SweetID  string
	Quantity int
}

// RestockSweetHandler handles the administrative restock operation
type RestockSweetHandler struct {
	repo domain.SweetRepository
}

// NewRestockSweetHandler creates a new restock sweet handler
func NewRestockSweetHandler(repo domain.SweetRepository) *RestockSweetHandler {
	return &RestockSweetHandler{repo: repo}
}

// Handle executes the restock command
func (h *RestockSweetHandler) Handle(ctx context.Context, cmd RestockSweetCommand) (*domain.Sweet, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	if _, err := h.repo.FindByID(ctx, cmd.SweetID); err != nil {
		return nil, err
	}

	return h.repo.IncrementQuantity(ctx, cmd.SweetID, cmd.Quantity)
}
