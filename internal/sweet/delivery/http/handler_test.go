package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/sweet-shop/internal/sweet/domain"
	"github.com/tair/sweet-shop/internal/sweet/usecase/command"
	"github.com/tair/sweet-shop/internal/sweet/usecase/query"
	"github.com/tair/sweet-shop/pkg/auth"
)

type mockSweetRepo struct {
	mu     sync.Mutex
	sweets map[string]*domain.Sweet
}

func newMockSweetRepo() *mockSweetRepo {
	return &mockSweetRepo{sweets: make(map[string]*domain.Sweet)}
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
		matched = append(matched, *s)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
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
	copied := *sweet
	return &copied, nil
}

// The handler registers Prometheus collectors in its constructor, so
// it is built once and shared by every subtest.
func TestSweetHandler(t *testing.T) {
	repo := newMockSweetRepo()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	mw := NewAuthMiddleware(jwtManager)

	handler := NewSweetHandler(
		command.NewCreateSweetHandler(repo),
		command.NewUpdateSweetHandler(repo),
		command.NewDeleteSweetHandler(repo),
		command.NewPurchaseSweetHandler(repo),
		command.NewRestockSweetHandler(repo),
		command.NewReleaseSweetHandler(repo),
		query.NewGetSweetHandler(repo),
		query.NewListSweetsHandler(repo),
		query.NewSearchSweetsHandler(repo),
		repo,
		mw,
		nil,
	)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	adminToken, err := jwtManager.GenerateToken("admin-1", "admin@example.com", "admin")
	require.NoError(t, err)
	userToken, err := jwtManager.GenerateToken("user-1", "user@example.com", "user")
	require.NoError(t, err)

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	var sweetID string

	t.Run("requests without a token are rejected", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/sweets", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin cannot create", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/sweets", userToken, map[string]interface{}{
			"name": "Fudge", "category": "chocolate", "price": 3.0, "quantity": 5,
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin creates a sweet", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/sweets", adminToken, map[string]interface{}{
			"name": "Caramel Fudge", "category": "chocolate", "price": 3.0, "quantity": 10,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decode(rec)
		sweet := body["sweet"].(map[string]interface{})
		sweetID = sweet["id"].(string)
		assert.NotEmpty(t, sweetID)
		assert.Equal(t, "Sweet created successfully", body["message"])
	})

	t.Run("list returns the sweet", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/sweets", userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(rec)
		sweets := body["sweets"].([]interface{})
		assert.Len(t, sweets, 1)
	})

	t.Run("search filters by category", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/sweets/search?category=chocolate", userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(rec)["sweets"].([]interface{}), 1)

		rec = do(http.MethodGet, "/api/sweets/search?category=gummies", userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode(rec)["sweets"])
	})

	t.Run("search rejects malformed price", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/sweets/search?minPrice=abc", userToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("purchase decrements stock", func(t *testing.T) {
		rec := do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", sweetID), userToken, map[string]int{"quantity": 4})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(rec)
		assert.Equal(t, "Purchase successful", body["message"])
		sweet := body["sweet"].(map[string]interface{})
		assert.Equal(t, float64(6), sweet["quantity"])
	})

	t.Run("purchase beyond stock fails without changing it", func(t *testing.T) {
		rec := do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", sweetID), userToken, map[string]int{"quantity": 100})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Insufficient quantity available", decode(rec)["error"])

		stored, err := repo.FindByID(context.Background(), sweetID)
		require.NoError(t, err)
		assert.Equal(t, 6, stored.Quantity)
	})

	t.Run("purchase rejects non-positive quantity", func(t *testing.T) {
		rec := do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/purchase", sweetID), userToken, map[string]int{"quantity": 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("restock is admin only", func(t *testing.T) {
		rec := do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/restock", sweetID), userToken, map[string]int{"quantity": 5})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/restock", sweetID), adminToken, map[string]int{"quantity": 5})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(rec)
		assert.Equal(t, "Restock successful", body["message"])
		sweet := body["sweet"].(map[string]interface{})
		assert.Equal(t, float64(11), sweet["quantity"])
	})

	t.Run("release returns held stock", func(t *testing.T) {
		rec := do(http.MethodPost, fmt.Sprintf("/api/sweets/%s/release", sweetID), userToken, map[string]int{"quantity": 2})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(rec)
		assert.Equal(t, "Stock released successfully", body["message"])
		sweet := body["sweet"].(map[string]interface{})
		assert.Equal(t, float64(13), sweet["quantity"])
	})

	t.Run("inventory operations on unknown sweet return 404", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/sweets/unknown-id/purchase", userToken, map[string]int{"quantity": 1})
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Sweet not found", decode(rec)["error"])
	})

	t.Run("admin updates the sweet", func(t *testing.T) {
		rec := do(http.MethodPut, "/api/sweets/"+sweetID, adminToken, map[string]interface{}{"price": 3.5})
		require.Equal(t, http.StatusOK, rec.Code)

		sweet := decode(rec)["sweet"].(map[string]interface{})
		assert.Equal(t, 3.5, sweet["price"])
		assert.Equal(t, "Caramel Fudge", sweet["name"])
	})

	t.Run("admin deletes the sweet", func(t *testing.T) {
		rec := do(http.MethodDelete, "/api/sweets/"+sweetID, adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(http.MethodGet, "/api/sweets/"+sweetID, userToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
