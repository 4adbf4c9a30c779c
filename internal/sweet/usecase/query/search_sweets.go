package query

import (
	"context"
	"fmt"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// SearchSweetsQuery filters the catalog. All provided criteria are
// AND-combined; absent criteria are not filtered.
type SearchSweetsQuery struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// SearchSweetsHandler handles search sweets query
type SearchSweetsHandler struct {
	repo domain.SweetRepository
}

// NewSearchSweetsHandler creates a new search sweets handler
func NewSearchSweetsHandler(repo domain.SweetRepository) *SearchSweetsHandler {
	return &SearchSweetsHandler{repo: repo}
}

// Handle executes the search sweets query
func (h *SearchSweetsHandler) Handle(ctx context.Context, q SearchSweetsQuery) ([]domain.Sweet, error) {
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return nil, fmt.Errorf("minPrice must be a positive number")
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return nil, fmt.Errorf("maxPrice must be a positive number")
	}

	sweets, err := h.repo.Search(ctx, domain.SearchFilters{
		Name:     q.Name,
		Category: q.Category,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search sweets: %w", err)
	}
	return sweets, nil
}
