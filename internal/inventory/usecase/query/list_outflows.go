package query

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// ListOutflowsQuery represents the query to list recorded outflows
type ListOutflowsQuery struct {
	Limit int
}

// ListOutflowsHandler handles the list outflows query
type ListOutflowsHandler struct {
	repo domain.InventoryRepository
}

// NewListOutflowsHandler creates a new list outflows handler
func NewListOutflowsHandler(repo domain.InventoryRepository) *ListOutflowsHandler {
	return &ListOutflowsHandler{repo: repo}
}

// Handle returns recent outflow log entries, newest first
func (h *ListOutflowsHandler) Handle(ctx context.Context, q ListOutflowsQuery) ([]domain.Outflow, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	if q.Limit > 500 {
		q.Limit = 500
	}

	items, err := h.repo.ListOutflows(ctx, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list outflows: %w", err)
	}
	return items, nil
}
