package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// GormInventoryRepositoryWithTracing wraps GormInventoryRepository with
// tracing. Spans cover the write paths and the low-stock scan; plain reads
// pass through to the embedded repository. Repository spans become children
// of the incoming HTTP span carried in ctx.
type GormInventoryRepositoryWithTracing struct {
	*GormInventoryRepository
}

var _ domain.InventoryRepository = (*GormInventoryRepositoryWithTracing)(nil)

// NewGormInventoryRepositoryWithTracing creates a new repository with tracing
func NewGormInventoryRepositoryWithTracing(db *gorm.DB) *GormInventoryRepositoryWithTracing {
	return &GormInventoryRepositoryWithTracing{
		GormInventoryRepository: NewGormInventoryRepository(db),
	}
}

// SubtractStock with tracing
func (r *GormInventoryRepositoryWithTracing) SubtractStock(ctx context.Context, code string, quantity int) (*domain.Antibiotic, error) {
	ctx, span := tracer.Start(ctx, "repository.SubtractStock",
		trace.WithAttributes(
			attribute.String("antibiotic.code", code),
			attribute.Int("stock.decrement", quantity),
		),
	)
	defer span.End()

	item, err := r.GormInventoryRepository.SubtractStock(ctx, code, quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("stock.remaining", item.Quantity))
	return item, nil
}

// RegisterOutflow with tracing
func (r *GormInventoryRepositoryWithTracing) RegisterOutflow(ctx context.Context, antibiogramID uint, units int) error {
	ctx, span := tracer.Start(ctx, "repository.RegisterOutflow",
		trace.WithAttributes(
			attribute.Int("antibiogram.id", int(antibiogramID)),
			attribute.Int("outflow.units", units),
		),
	)
	defer span.End()

	err := r.GormInventoryRepository.RegisterOutflow(ctx, antibiogramID, units)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// ReplaceAssociations with tracing
func (r *GormInventoryRepositoryWithTracing) ReplaceAssociations(ctx context.Context, antibiogramID uint, antibioticCodes []string) error {
	ctx, span := tracer.Start(ctx, "repository.ReplaceAssociations",
		trace.WithAttributes(
			attribute.Int("antibiogram.id", int(antibiogramID)),
			attribute.Int("association.codes", len(antibioticCodes)),
		),
	)
	defer span.End()

	err := r.GormInventoryRepository.ReplaceAssociations(ctx, antibiogramID, antibioticCodes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// UpdateStock with tracing
func (r *GormInventoryRepositoryWithTracing) UpdateStock(ctx context.Context, code string, quantity, minStock int) (*domain.Antibiotic, error) {
	ctx, span := tracer.Start(ctx, "repository.UpdateStock",
		trace.WithAttributes(
			attribute.String("antibiotic.code", code),
			attribute.Int("stock.quantity", quantity),
			attribute.Int("stock.threshold", minStock),
		),
	)
	defer span.End()

	item, err := r.GormInventoryRepository.UpdateStock(ctx, code, quantity, minStock)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return item, nil
}

// ListLowStock with tracing
func (r *GormInventoryRepositoryWithTracing) ListLowStock(ctx context.Context) ([]domain.Antibiotic, error) {
	ctx, span := tracer.Start(ctx, "repository.ListLowStock")
	defer span.End()

	items, err := r.GormInventoryRepository.ListLowStock(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("lowstock.count", len(items)))
	return items, nil
}
