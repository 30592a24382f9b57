package query

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// ListAntibioticsHandler handles the list antibiotics query
type ListAntibioticsHandler struct {
	repo domain.InventoryRepository
}

// NewListAntibioticsHandler creates a new list antibiotics handler
func NewListAntibioticsHandler(repo domain.InventoryRepository) *ListAntibioticsHandler {
	return &ListAntibioticsHandler{repo: repo}
}

// Handle returns all antibiotics ordered by name
func (h *ListAntibioticsHandler) Handle(ctx context.Context) ([]domain.Antibiotic, error) {
	items, err := h.repo.ListAntibiotics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list antibiotics: %w", err)
	}
	return items, nil
}
