package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/sweet-shop/internal/user/domain"
	"github.com/tair/sweet-shop/pkg/auth"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo domain.UserRepository
	jwt  *auth.JWTManager
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, jwt *auth.JWTManager) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, jwt: jwt}
}

// Handle executes the login user command. Unknown email and wrong
// password produce the same error so the response does not leak which
// accounts exist.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || cmd.Password == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := h.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrBadCredentials
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, domain.ErrBadCredentials
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{Token: token, User: user}, nil
}
