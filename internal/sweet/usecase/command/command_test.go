package command

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// mockSweetRepo is an in-memory repository. The mutex makes the
// conditional decrement atomic, mirroring the database guarantee.
type mockSweetRepo struct {
	mu     sync.Mutex
	sweets map[string]*domain.Sweet
}

func newMockSweetRepo(seed ...*domain.Sweet) *mockSweetRepo {
	repo := &mockSweetRepo{sweets: make(map[string]*domain.Sweet)}
	for _, s := range seed {
		copied := *s
		repo.sweets[s.ID] = &copied
	}
	return repo
}

func (m *mockSweetRepo) Create(ctx context.Context, sweet *domain.Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *sweet
	m.sweets[sweet.ID] = &copied
	return nil
}

func (m *mockSweetRepo) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *sweet
	return &copied, nil
}

func (m *mockSweetRepo) FindAll(ctx context.Context) ([]domain.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]domain.Sweet, 0, len(m.sweets))
	for _, s := range m.sweets {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (m *mockSweetRepo) Search(ctx context.Context, filters domain.SearchFilters) ([]domain.Sweet, error) {
	return m.FindAll(ctx)
}

func (m *mockSweetRepo) Update(ctx context.Context, id string, fields domain.UpdateFields) (*domain.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if fields.Name != nil {
		sweet.Name = *fields.Name
	}
	if fields.Category != nil {
		sweet.Category = *fields.Category
	}
	if fields.Price != nil {
		sweet.Price = *fields.Price
	}
	if fields.Quantity != nil {
		sweet.Quantity = *fields.Quantity
	}
	if !fields.Empty() {
		sweet.UpdatedAt = time.Now()
	}
	copied := *sweet
	return &copied, nil
}

func (m *mockSweetRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sweets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sweets, id)
	return nil
}

func (m *mockSweetRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sweets)), nil
}

func (m *mockSweetRepo) TryDecrementQuantity(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if sweet.Quantity < amount {
		return nil, domain.ErrInsufficientQuantity
	}
	sweet.Quantity -= amount
	sweet.UpdatedAt = time.Now()
	copied := *sweet
	return &copied, nil
}

func (m *mockSweetRepo) IncrementQuantity(ctx context.Context, id string, amount int) (*domain.Sweet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	sweet.Quantity += amount
	sweet.UpdatedAt = time.Now()
	copied := *sweet
	return &copied, nil
}

func seedSweet(id string, quantity int) *domain.Sweet {
	now := time.Now()
	return &domain.Sweet{
		ID:        id,
		Name:      "Dark Chocolate Truffle",
		Category:  "chocolate",
		Price:     4.50,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateSweet(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := newMockSweetRepo()
		handler := NewCreateSweetHandler(repo)

		sweet, err := handler.Handle(context.Background(), CreateSweetCommand{
			Name:     "  Gummy Bears ",
			Category: "gummies",
			Price:    2.99,
			Quantity: 100,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, sweet.ID)
		assert.Equal(t, "Gummy Bears", sweet.Name)
		assert.Equal(t, 100, sweet.Quantity)

		stored, err := repo.FindByID(context.Background(), sweet.ID)
		require.NoError(t, err)
		assert.Equal(t, sweet.ID, stored.ID)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		handler := NewCreateSweetHandler(newMockSweetRepo())
		_, err := handler.Handle(context.Background(), CreateSweetCommand{
			Name:     "   ",
			Category: "gummies",
			Price:    1.0,
		})
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		handler := NewCreateSweetHandler(newMockSweetRepo())
		_, err := handler.Handle(context.Background(), CreateSweetCommand{
			Name:     "Gummy Bears",
			Category: "gummies",
			Price:    -1.0,
		})
		assert.Error(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		handler := NewCreateSweetHandler(newMockSweetRepo())
		_, err := handler.Handle(context.Background(), CreateSweetCommand{
			Name:     "Gummy Bears",
			Category: "gummies",
			Price:    1.0,
			Quantity: -5,
		})
		assert.Error(t, err)
	})
}

func TestPurchaseSweet(t *testing.T) {
	t.Run("decrements stock", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 10))
		handler := NewPurchaseSweetHandler(repo)

		sweet, err := handler.Handle(context.Background(), PurchaseSweetCommand{SweetID: "s1", Quantity: 3})

		require.NoError(t, err)
		assert.Equal(t, 7, sweet.Quantity)
	})

	t.Run("allows buying out the exact remaining stock", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 5))
		handler := NewPurchaseSweetHandler(repo)

		sweet, err := handler.Handle(context.Background(), PurchaseSweetCommand{SweetID: "s1", Quantity: 5})

		require.NoError(t, err)
		assert.Equal(t, 0, sweet.Quantity)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 2))
		handler := NewPurchaseSweetHandler(repo)

		_, err := handler.Handle(context.Background(), PurchaseSweetCommand{SweetID: "s1", Quantity: 3})

		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

		stored, _ := repo.FindByID(context.Background(), "s1")
		assert.Equal(t, 2, stored.Quantity, "failed purchase must not change stock")
	})

	t.Run("zero stock", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 0))
		handler := NewPurchaseSweetHandler(repo)

		_, err := handler.Handle(context.Background(), PurchaseSweetCommand{SweetID: "s1", Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	})

	t.Run("unknown sweet", func(t *testing.T) {
		handler := NewPurchaseSweetHandler(newMockSweetRepo())
		_, err := handler.Handle(context.Background(), PurchaseSweetCommand{SweetID: "missing", Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 10))
		handler := NewPurchaseSweetHandler(repo)

		_, err := handler.Handle(context.Background(), PurchaseSweetCommand{SweetID: "s1", Quantity: 0})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

		_, err = handler.Handle(context.Background(), PurchaseSweetCommand{SweetID: "s1", Quantity: -4})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})
}

// Concurrent purchases must never oversell: with stock S and N buyers
// of one unit each, exactly S succeed and stock ends at zero.
func TestPurchaseSweet_Concurrent(t *testing.T) {
	const stock = 25
	const buyers = 100

	repo := newMockSweetRepo(seedSweet("s1", stock))
	handler := NewPurchaseSweetHandler(repo)

	var wg sync.WaitGroup
	results := make(chan error, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler.Handle(context.Background(), PurchaseSweetCommand{SweetID: "s1", Quantity: 1})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
		}
	}

	assert.Equal(t, stock, succeeded)

	stored, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}

func TestRestockSweet(t *testing.T) {
	t.Run("increments stock", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 3))
		handler := NewRestockSweetHandler(repo)

		sweet, err := handler.Handle(context.Background(), RestockSweetCommand{SweetID: "s1", Quantity: 7})

		require.NoError(t, err)
		assert.Equal(t, 10, sweet.Quantity)
	})

	t.Run("unknown sweet", func(t *testing.T) {
		handler := NewRestockSweetHandler(newMockSweetRepo())
		_, err := handler.Handle(context.Background(), RestockSweetCommand{SweetID: "missing", Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 3))
		handler := NewRestockSweetHandler(repo)
		_, err := handler.Handle(context.Background(), RestockSweetCommand{SweetID: "s1", Quantity: 0})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})
}

func TestReleaseSweet(t *testing.T) {
	t.Run("returns held stock", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 3))
		handler := NewReleaseSweetHandler(repo)

		sweet, err := handler.Handle(context.Background(), ReleaseSweetCommand{SweetID: "s1", Quantity: 2})

		require.NoError(t, err)
		assert.Equal(t, 5, sweet.Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 3))
		handler := NewReleaseSweetHandler(repo)
		_, err := handler.Handle(context.Background(), ReleaseSweetCommand{SweetID: "s1", Quantity: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})
}

func TestUpdateSweet(t *testing.T) {
	t.Run("partial update touches only provided fields", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 10))
		handler := NewUpdateSweetHandler(repo)

		newPrice := 5.25
		sweet, err := handler.Handle(context.Background(), UpdateSweetCommand{ID: "s1", Price: &newPrice})

		require.NoError(t, err)
		assert.Equal(t, 5.25, sweet.Price)
		assert.Equal(t, "Dark Chocolate Truffle", sweet.Name)
		assert.Equal(t, 10, sweet.Quantity)
	})

	t.Run("no fields returns current record", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 10))
		handler := NewUpdateSweetHandler(repo)

		sweet, err := handler.Handle(context.Background(), UpdateSweetCommand{ID: "s1"})

		require.NoError(t, err)
		assert.Equal(t, 10, sweet.Quantity)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 10))
		handler := NewUpdateSweetHandler(repo)

		blank := "  "
		_, err := handler.Handle(context.Background(), UpdateSweetCommand{ID: "s1", Name: &blank})
		assert.Error(t, err)
	})

	t.Run("unknown sweet", func(t *testing.T) {
		handler := NewUpdateSweetHandler(newMockSweetRepo())
		name := "Fudge"
		_, err := handler.Handle(context.Background(), UpdateSweetCommand{ID: "missing", Name: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDeleteSweet(t *testing.T) {
	t.Run("removes the sweet", func(t *testing.T) {
		repo := newMockSweetRepo(seedSweet("s1", 10))
		handler := NewDeleteSweetHandler(repo)

		require.NoError(t, handler.Handle(context.Background(), DeleteSweetCommand{ID: "s1"}))

		_, err := repo.FindByID(context.Background(), "s1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown sweet", func(t *testing.T) {
		handler := NewDeleteSweetHandler(newMockSweetRepo())
		err := handler.Handle(context.Background(), DeleteSweetCommand{ID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
