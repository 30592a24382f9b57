package query

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// ListAntibiogramsHandler handles the list antibiograms query
type ListAntibiogramsHandler struct {
	repo domain.InventoryRepository
}

// NewListAntibiogramsHandler creates a new list antibiograms handler
func NewListAntibiogramsHandler(repo domain.InventoryRepository) *ListAntibiogramsHandler {
	return &ListAntibiogramsHandler{repo: repo}
}

// Handle returns all antibiograms ordered by name
func (h *ListAntibiogramsHandler) Handle(ctx context.Context) ([]domain.Antibiogram, error) {
	items, err := h.repo.ListAntibiograms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list antibiograms: %w", err)
	}
	return items, nil
}
