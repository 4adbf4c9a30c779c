package query

import (
	"context"
	"fmt"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// GetSweetQuery represents the query to get a sweet by ID
type GetSweetQuery struct {
	ID string
}

// GetSweetHandler handles get sweet query
type GetSweetHandler struct {
	repo domain.SweetRepository
}

// NewGetSweetHandler creates a new get sweet handler
func NewGetSweetHandler(repo domain.SweetRepository) *GetSweetHandler {
	return &GetSweetHandler{repo: repo}
}

// Handle executes the get sweet query
func (h *GetSweetHandler) Handle(ctx context.Context, q GetSweetQuery) (*domain.Sweet, error) {
	if q.ID == "" {
		return nil, fmt.Errorf("sweet id is required")
	}
	return h.repo.FindByID(ctx, q.ID)
}
