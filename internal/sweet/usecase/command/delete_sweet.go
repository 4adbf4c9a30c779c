package command

import (
	"context"
	"fmt"

	"github.com/tair/sweet-shop/internal/sweet/domain"
)

// DeleteSweetCommand represents the command to delete a sweet
type DeleteSweetCommand struct {
	ID string
}

// DeleteSweetHandler handles sweet deletion command
type DeleteSweetHandler struct {
	repo domain.SweetRepository
}

// NewDeleteSweetHandler creates a new delete sweet handler
func NewDeleteSweetHandler(repo domain.SweetRepository) *DeleteSweetHandler {
	return &DeleteSweetHandler{repo: repo}
}

// Handle executes the delete sweet command
func (h *DeleteSweetHandler) Handle(ctx context.Context, cmd DeleteSweetCommand) error {
	if cmd.ID == "" {
		return fmt.Errorf("sweet id is required")
	}
	return h.repo.Delete(ctx, cmd.ID)
}
