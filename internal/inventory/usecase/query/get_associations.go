package query

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// GetAssociationsQuery represents the query for an antibiogram's antibiotics
type GetAssociationsQuery struct {
	AntibiogramID int
}

// GetAssociationsHandler handles association lookups for one antibiogram
type GetAssociationsHandler struct {
	repo domain.InventoryRepository
}

// NewGetAssociationsHandler creates a new get associations handler
func NewGetAssociationsHandler(repo domain.InventoryRepository) *GetAssociationsHandler {
	return &GetAssociationsHandler{repo: repo}
}

// HandleCodes returns the antibiotic codes linked to the antibiogram
func (h *GetAssociationsHandler) HandleCodes(ctx context.Context, q GetAssociationsQuery) ([]string, error) {
	if q.AntibiogramID <= 0 {
		return nil, fmt.Errorf("%w: antibiogram_id must be a positive integer", domain.ErrValidation)
	}

	codes, err := h.repo.AssociatedCodes(ctx, uint(q.AntibiogramID))
	if err != nil {
		return nil, fmt.Errorf("failed to get associated codes: %w", err)
	}
	return codes, nil
}

// HandleDetail returns the full antibiotic records linked to the antibiogram
func (h *GetAssociationsHandler) HandleDetail(ctx context.Context, q GetAssociationsQuery) ([]domain.Antibiotic, error) {
	if q.AntibiogramID <= 0 {
		return nil, fmt.Errorf("%w: antibiogram_id must be a positive integer", domain.ErrValidation)
	}

	items, err := h.repo.AssociatedAntibiotics(ctx, uint(q.AntibiogramID))
	if err != nil {
		return nil, fmt.Errorf("failed to get associated antibiotics: %w", err)
	}
	return items, nil
}
