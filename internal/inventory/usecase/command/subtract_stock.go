package command

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// SubtractStockCommand represents the command to decrement one antibiotic's stock
type SubtractStockCommand struct {
	Code     string
	Quantity int
}

// SubtractStockHandler handles the subtract stock command
type SubtractStockHandler struct {
	repo domain.InventoryRepository
}

// NewSubtractStockHandler creates a new subtract stock handler
func NewSubtractStockHandler(repo domain.InventoryRepository) *SubtractStockHandler {
	return &SubtractStockHandler{repo: repo}
}

// Handle executes the subtract stock command and returns the updated record
func (h *SubtractStockHandler) Handle(ctx context.Context, cmd SubtractStockCommand) (*domain.Antibiotic, error) {
	if cmd.Code == "" {
		return nil, fmt.Errorf("%w: codigo is required", domain.ErrValidation)
	}

	if cmd.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}

	return h.repo.SubtractStock(ctx, cmd.Code, cmd.Quantity)
}
