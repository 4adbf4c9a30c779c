package command

import (
	"context"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// PurchaseSweetCommand represents the command to purchase stock
type PurchaseSweetCommand struct {
	SweetID  string
	Quantity int
}

// PurchaseSweetHandler handles the purchase operation
type PurchaseSweetHandler struct {
	repo domain.SweetRepository
}

// NewPurchaseSweetHandler creates a new purchase sweet handler
func NewPurchaseSweetHandler(repo domain.SweetRepository) *PurchaseSweetHandler {
	return &PurchaseSweetHandler{repo: repo}
}

// Handle executes the purchase. The initial read is advisory only, so
// callers get ErrNotFound or ErrInsufficientQuantity before the write
// is attempted; the conditional decrement remains the authoritative
// check under concurrency.
func (h *PurchaseSweetHandler) Handle(ctx context.Context, cmd PurchaseSweetCommand) (*domain.Sweet, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	sweet, err := h.repo.FindByID(ctx, cmd.SweetID)
	if err != nil {
		return nil, err
	}
	if sweet.Quantity < cmd.Quantity {
		return nil, domain.ErrInsufficientQuantity
	}

	return h.repo.TryDecrementQuantity(ctx, cmd.SweetID, cmd.Quantity)
}
