package query

import (
	"context"
	"fmt"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// GetAntibioticQuery represents the query for a single antibiotic
type GetAntibioticQuery struct {
	Code string
}

// GetAntibioticHandler handles single antibiotic lookups
type GetAntibioticHandler struct {
	repo domain.InventoryRepository
}

// NewGetAntibioticHandler creates a new get antibiotic handler
func NewGetAntibioticHandler(repo domain.InventoryRepository) *GetAntibioticHandler {
	return &GetAntibioticHandler{repo: repo}
}

// Handle returns the antibiotic with the given code
func (h *GetAntibioticHandler) Handle(ctx context.Context, q GetAntibioticQuery) (*domain.Antibiotic, error) {
	if q.Code == "" {
		return nil, fmt.Errorf("%w: codigo is required", domain.ErrValidation)
	}

	return h.repo.FindAntibiotic(ctx, q.Code)
}
