package command

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tair/sweet-shop/internal/user/domain"
	"github.com/tair/sweet-shop/pkg/auth"
)

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// AuthResponse is returned after a successful register or login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
	jwt  *auth.JWTManager
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository, jwt *auth.JWTManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, jwt: jwt}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	if _, err := h.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now()
	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hash,
		Name:      strings.TrimSpace(cmd.Name),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{Token: token, User: user}, nil
}
