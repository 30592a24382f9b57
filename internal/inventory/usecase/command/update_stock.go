package command

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// UpdateStockCommand represents the command to set an antibiotic's quantity
// and minimum threshold
type UpdateStockCommand struct {
	Code     string
	Quantity int
	MinStock int
}

// UpdateStockHandler handles the update stock command
type UpdateStockHandler struct {
	repo domain.InventoryRepository
}

// NewUpdateStockHandler creates a new update stock handler
func NewUpdateStockHandler(repo domain.InventoryRepository) *UpdateStockHandler {
	return &UpdateStockHandler{repo: repo}
}

// Handle executes the update stock command and returns the updated record
func (h *UpdateStockHandler) Handle(ctx context.Context, cmd UpdateStockCommand) (*domain.Antibiotic, error) {
	if cmd.Code == "" {
		return nil, fmt.Errorf("%w: codigo is required", domain.ErrValidation)
	}

	if cmd.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", domain.ErrValidation)
	}

	if cmd.MinStock < 0 {
		return nil, fmt.Errorf("%w: threshold cannot be negative", domain.ErrValidation)
	}

	return h.repo.UpdateStock(ctx, cmd.Code, cmd.Quantity, cmd.MinStock)
}
