package command

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// RegisterOutflowCommand represents the command to dispense an antibiogram panel
type RegisterOutflowCommand struct {
	AntibiogramID int
	Units         int
}

// RegisterOutflowHandler handles the register outflow command
type RegisterOutflowHandler struct {
	repo domain.InventoryRepository
}

// NewRegisterOutflowHandler creates a new register outflow handler
func NewRegisterOutflowHandler(repo domain.InventoryRepository) *RegisterOutflowHandler {
	return &RegisterOutflowHandler{repo: repo}
}

// Handle executes the register outflow command. Every antibiotic associated
// with the antibiogram is decremented by Units and one log row is appended,
// or nothing happens at all.
func (h *RegisterOutflowHandler) Handle(ctx context.Context, cmd RegisterOutflowCommand) error {
	if cmd.AntibiogramID <= 0 {
		return fmt.Errorf("%w: antibiogram_id must be a positive integer", domain.ErrValidation)
	}

	if cmd.Units <= 0 {
		return fmt.Errorf("%w: units must be a positive integer", domain.ErrValidation)
	}

	return h.repo.RegisterOutflow(ctx, uint(cmd.AntibiogramID), cmd.Units)
}
