package command

import (
	"context"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// ReleaseSweetCommand returns previously reserved stock to availability.
// At the storage layer this is the same increment as a restock; the two
// differ only by caller intent, which the published audit event records.
type ReleaseSweetCommand struct {
	SweetID  string
	Quantity int
}

// ReleaseSweetHandler handles the release operation
type ReleaseSweetHandler struct {
	repo domain.SweetRepository
}

// NewReleaseSweetHandler creates a new release sweet handler
func NewReleaseSweetHandler(repo domain.SweetRepository) *ReleaseSweetHandler {
	return &ReleaseSweetHandler{repo: repo}
}

// Handle executes the release command
func (h *ReleaseSweetHandler) Handle(ctx context.Context, cmd ReleaseSweetCommand) (*domain.Sweet, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	if _, err := h.repo.FindByID(ctx, cmd.SweetID); err != nil {
		return nil, err
	}

	return h.repo.IncrementQuantity(ctx, cmd.SweetID, cmd.Quantity)
}
