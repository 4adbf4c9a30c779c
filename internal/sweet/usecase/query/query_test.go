package query

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// mockSweetRepo mirrors the SQL search semantics in memory: substring
// name match and exact category match are case-insensitive, price
// bounds are inclusive, results come back newest first.
type mockSweetRepo struct {
	mu     sync.Mutex
	sweets []domain.Sweet
}

func (m *mockSweetRepo) Create(ctx context.Context, sweet *domain.Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweets = append(m.sweets, *sweet)
	return nil
}

func (m *mockSweetRepo) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sweets {
		if m.sweets[i].ID == id {
			copied := m.sweets[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSweetRepo) FindAll(ctx context.Context) ([]domain.Sweet, error) {
	return m.Search(ctx, domain.SearchFilters{})
}

func (m *mockSweetRepo) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []domain.Sweet{}
	for _, s := range m.sweets {
		if filters.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filters.Name)) {
			continue
		}
		if filters.Category != "" && !strings.EqualFold(s.Category, filters.Category) {
			continue
		}
		if filters.MinPrice != nil && s.Price < *filters.MinPrice {
			continue
		}
		if filters.MaxPrice != nil && s.Price > *filters.MaxPrice {
			continue
		}
		matched = append(matched, s)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (m *mockSweetRepo) Update(ctx context.Context, id string, fields domain.UpdateFields) (*domain.Sweet, error) {
	return nil, domain.ErrNotFound
}

func (m *mockSweetRepo) Delete(ctx context.Context, id string) error { return domain.ErrNotFound }

func (m *mockSweetRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sweets)), nil
}

func (m *mockSweetRepo) TryDecrementQuantity(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	return nil, domain.ErrNotFound
}

func (m *mockSweetRepo) IncrementQuantity(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	return nil, domain.ErrNotFound
}

func seedCatalog(t *testing.T) *mockSweetRepo {
	t.Helper()

	repo := &mockSweetRepo{}
	base := time.Now()
	seeds := []domain.Sweet{
		{ID: "s1", Name: "Dark Chocolate Truffle", Category: "chocolate", Price: 4.50, Quantity: 10, CreatedAt: base.Add(-3 * time.Hour)},
		{ID: "s2", Name: "Milk Chocolate Bar", Category: "chocolate", Price: 2.00, Quantity: 25, CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "s3", Name: "Gummy Bears", Category: "gummies", Price: 1.50, Quantity: 50, CreatedAt: base.Add(-1 * time.Hour)},
		{ID: "s4", Name: "Sour Gummy Worms", Category: "gummies", Price: 1.75, Quantity: 0, CreatedAt: base},
	}
	for i := range seeds {
		require.NoError(t, repo.Create(context.Background(), &seeds[i]))
	}
	return repo
}

func TestListSweets(t *testing.T) {
	handler := NewListSweetsHandler(seedCatalog(t))

	sweets, err := handler.Handle(context.Background(), ListSweetsQuery{})

	require.NoError(t, err)
	require.Len(t, sweets, 4)
	assert.Equal(t, "s4", sweets[0].ID, "newest sweet comes first")
	assert.Equal(t, "s1", sweets[3].ID)
}

func TestGetSweet(t *testing.T) {
	handler := NewGetSweetHandler(seedCatalog(t))

	t.Run("found", func(t *testing.T) {
		sweet, err := handler.Handle(context.Background(), GetSweetQuery{ID: "s3"})
		require.NoError(t, err)
		assert.Equal(t, "Gummy Bears", sweet.Name)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), GetSweetQuery{})
		assert.Error(t, err)
	})

	t.Run("unknown sweet", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), GetSweetQuery{ID: "nope"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSearchSweets(t *testing.T) {
	handler := NewSearchSweetsHandler(seedCatalog(t))

	t.Run("name substring is case-insensitive", func(t *testing.T) {
		sweets, err := handler.Handle(context.Background(), SearchSweetsQuery{Name: "chocolate"})
		require.NoError(t, err)
		require.Len(t, sweets, 2)
	})

	t.Run("category exact match", func(t *testing.T) {
		sweets, err := handler.Handle(context.Background(), SearchSweetsQuery{Category: "Gummies"})
		require.NoError(t, err)
		require.Len(t, sweets, 2)
		assert.Equal(t, "s4", sweets[0].ID)
	})

	t.Run("price bounds are inclusive", func(t *testing.T) {
		min, max := 1.75, 4.50
		sweets, err := handler.Handle(context.Background(), SearchSweetsQuery{MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		require.Len(t, sweets, 3)
	})

	t.Run("criteria are AND-combined", func(t *testing.T) {
		min := 1.60
		sweets, err := handler.Handle(context.Background(), SearchSweetsQuery{Category: "gummies", MinPrice: &min})
		require.NoError(t, err)
		require.Len(t, sweets, 1)
		assert.Equal(t, "Sour Gummy Worms", sweets[0].Name)
	})

	t.Run("no criteria returns everything", func(t *testing.T) {
		sweets, err := handler.Handle(context.Background(), SearchSweetsQuery{})
		require.NoError(t, err)
		assert.Len(t, sweets, 4)
	})

	t.Run("no matches returns empty slice", func(t *testing.T) {
		sweets, err := handler.Handle(context.Background(), SearchSweetsQuery{Name: "licorice"})
		require.NoError(t, err)
		assert.Empty(t, sweets)
	})

	t.Run("rejects negative price bounds", func(t *testing.T) {
		bad := -1.0
		_, err := handler.Handle(context.Background(), SearchSweetsQuery{MinPrice: &bad})
		assert.Error(t, err)

		_, err = handler.Handle(context.Background(), SearchSweetsQuery{MaxPrice: &bad})
		assert.Error(t, err)
	})
}
