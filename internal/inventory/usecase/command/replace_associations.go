package command

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// ReplaceAssociationsCommand represents the command to swap the antibiotic
// set of an antibiogram. An empty Codes list clears all associations.
type ReplaceAssociationsCommand struct {
	AntibiogramID int
	Codes         []string
}

// ReplaceAssociationsHandler handles the replace associations command
type ReplaceAssociationsHandler struct {
	repo domain.InventoryRepository
}

// NewReplaceAssociationsHandler creates a new replace associations handler
func NewReplaceAssociationsHandler(repo domain.InventoryRepository) *ReplaceAssociationsHandler {
	return &ReplaceAssociationsHandler{repo: repo}
}

// Handle executes the replace associations command and returns the count of
// codes supplied, duplicates included.
func (h *ReplaceAssociationsHandler) Handle(ctx context.Context, cmd ReplaceAssociationsCommand) (int, error) {
	if cmd.AntibiogramID <= 0 {
		return 0, fmt.Errorf("%w: antibiogram_id must be a positive integer", domain.ErrValidation)
	}

	if err := h.repo.ReplaceAssociations(ctx, uint(cmd.AntibiogramID), cmd.Codes); err != nil {
		return 0, err
	}

	return len(cmd.Codes), nil
}
