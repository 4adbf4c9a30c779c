package query

import (
	"context"
	"fmt"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// ListSweetsQuery represents the query to list all sweets, newest first
type ListSweetsQuery struct{}

// ListSweetsHandler handles list sweets query
type ListSweetsHandler struct {
	repo domain.SweetRepository
}

// NewListSweetsHandler creates a new list sweets handler
func NewListSweetsHandler(repo domain.SweetRepository) *ListSweetsHandler {
	return &ListSweetsHandler{repo: repo}
}

// Handle executes the list sweets query
func (h *ListSweetsHandler) Handle(ctx context.Context, _ ListSweetsQuery) ([]domain.Sweet, error) {
	sweets, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweets: %w", err)
	}
	return sweets, nil
}
