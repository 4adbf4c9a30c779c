package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/sweet-shop/internal/user/domain"
	"github.com/tair/sweet-shop/pkg/auth"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func testJWT() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func TestRegisterUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := newMockUserRepo()
		handler := NewRegisterUserHandler(repo, testJWT())

		resp, err := handler.Handle(context.Background(), RegisterUserCommand{
			Email:    "Alice@Example.com",
			Password: "secret123",
			Name:     "Alice",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice@example.com", resp.User.Email, "email is normalized to lowercase")
		assert.Equal(t, domain.RoleUser, resp.User.Role)
		assert.NotEqual(t, "secret123", resp.User.Password, "password must be stored hashed")

		claims, err := testJWT().ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, "alice@example.com", claims.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newMockUserRepo()
		handler := NewRegisterUserHandler(repo, testJWT())

		cmd := RegisterUserCommand{Email: "bob@example.com", Password: "secret123", Name: "Bob"}
		_, err := handler.Handle(context.Background(), cmd)
		require.NoError(t, err)

		_, err = handler.Handle(context.Background(), cmd)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("invalid email", func(t *testing.T) {
		handler := NewRegisterUserHandler(newMockUserRepo(), testJWT())
		_, err := handler.Handle(context.Background(), RegisterUserCommand{
			Email:    "not-an-email",
			Password: "secret123",
			Name:     "Carol",
		})
		assert.Error(t, err)
	})

	t.Run("short password", func(t *testing.T) {
		handler := NewRegisterUserHandler(newMockUserRepo(), testJWT())
		_, err := handler.Handle(context.Background(), RegisterUserCommand{
			Email:    "carol@example.com",
			Password: "12345",
			Name:     "Carol",
		})
		assert.Error(t, err)
	})
}

func TestLoginUser(t *testing.T) {
	repo := newMockUserRepo()
	register := NewRegisterUserHandler(repo, testJWT())
	login := NewLoginUserHandler(repo, testJWT())

	_, err := register.Handle(context.Background(), RegisterUserCommand{
		Email:    "dave@example.com",
		Password: "hunter22",
		Name:     "Dave",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := login.Handle(context.Background(), LoginUserCommand{
			Email:    "Dave@Example.com",
			Password: "hunter22",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "dave@example.com", resp.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := login.Handle(context.Background(), LoginUserCommand{
			Email:    "dave@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, domain.ErrBadCredentials)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		_, err := login.Handle(context.Background(), LoginUserCommand{
			Email:    "nobody@example.com",
			Password: "hunter22",
		})
		assert.ErrorIs(t, err, domain.ErrBadCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := login.Handle(context.Background(), LoginUserCommand{})
		assert.ErrorIs(t, err, domain.ErrBadCredentials)
	})
}
