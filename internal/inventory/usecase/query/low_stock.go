package query

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// LowStockHandler handles the low-stock alert query
type LowStockHandler struct {
	repo domain.InventoryRepository
}

// NewLowStockHandler creates a new low stock handler
func NewLowStockHandler(repo domain.InventoryRepository) *LowStockHandler {
	return &LowStockHandler{repo: repo}
}

// Handle returns antibiotics at or below their minimum threshold
func (h *LowStockHandler) Handle(ctx context.Context) ([]domain.Antibiotic, error) {
	items, err := h.repo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock antibiotics: %w", err)
	}
	return items, nil
}
