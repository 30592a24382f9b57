package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

// GormInventoryRepository implements InventoryRepository using GORM.
// Consistency of the write paths relies entirely on PostgreSQL row locks
// (SELECT ... FOR UPDATE) and transactions; the repository holds no
// in-process state and never retries an aborted transaction.
type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Antibiotic{},
		&domain.Antibiogram{},
		&domain.AntibiogramAntibiotic{},
		&domain.Outflow{},
	)
}

// ListAntibiotics returns all antibiotics ordered by name
func (r *GormInventoryRepository) ListAntibiotics(ctx context.Context) ([]domain.Antibiotic, error) {
	items := []domain.Antibiotic{}
	if err := r.db.WithContext(ctx).Order("nombre ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list antibiotics: %w", err)
	}
	return items, nil
}

// FindAntibiotic retrieves one antibiotic by code
func (r *GormInventoryRepository) FindAntibiotic(ctx context.Context, code string) (*domain.Antibiotic, error) {
	var item domain.Antibiotic
	if err := r.db.WithContext(ctx).Where("codigo = ?", code).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAntibioticNotFound
		}
		return nil, fmt.Errorf("failed to find antibiotic: %w", err)
	}
	return &item, nil
}

// ListAntibiograms returns all antibiograms ordered by name
func (r *GormInventoryRepository) ListAntibiograms(ctx context.Context) ([]domain.Antibiogram, error) {
	items := []domain.Antibiogram{}
	if err := r.db.WithContext(ctx).Order("nombre ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list antibiograms: %w", err)
	}
	return items, nil
}

// ListLowStock returns antibiotics at or below their minimum threshold,
// worst shortfall first, then by name
func (r *GormInventoryRepository) ListLowStock(ctx context.Context) ([]domain.Antibiotic, error) {
	items := []domain.Antibiotic{}
	err := r.db.WithContext(ctx).
		Where("cantidad <= stock_minimo").
		Order("(cantidad - stock_minimo) ASC, nombre ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock antibiotics: %w", err)
	}
	return items, nil
}

// AssociatedCodes returns the antibiotic codes linked to an antibiogram
func (r *GormInventoryRepository) AssociatedCodes(ctx context.Context, antibiogramID uint) ([]string, error) {
	codes := []string{}
	err := r.db.WithContext(ctx).Model(&domain.AntibiogramAntibiotic{}).
		Where("antibiograma_id = ?", antibiogramID).
		Order("antibiotico_codigo ASC").
		Pluck("antibiotico_codigo", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list associated codes: %w", err)
	}
	return codes, nil
}

// AssociatedAntibiotics returns the full antibiotic records linked to an antibiogram
func (r *GormInventoryRepository) AssociatedAntibiotics(ctx context.Context, antibiogramID uint) ([]domain.Antibiotic, error) {
	items := []domain.Antibiotic{}
	err := r.db.WithContext(ctx).
		Joins("JOIN antibiograma_antibioticos aa ON aa.antibiotico_codigo = antibioticos.codigo").
		Where("aa.antibiograma_id = ?", antibiogramID).
		Order("antibioticos.nombre ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list associated antibiotics: %w", err)
	}
	return items, nil
}

// ReplaceAssociations atomically swaps the full antibiotic set of an antibiogram.
// Blank codes are skipped; duplicate codes collapse via ON CONFLICT DO NOTHING.
func (r *GormInventoryRepository) ReplaceAssociations(ctx context.Context, antibiogramID uint, codes []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("antibiograma_id = ?", antibiogramID).
			Delete(&domain.AntibiogramAntibiotic{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete associations: %w", err)
		}

		links := make([]domain.AntibiogramAntibiotic, 0, len(codes))
		seen := make(map[string]bool, len(codes))
		for _, code := range codes {
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			links = append(links, domain.AntibiogramAntibiotic{
				AntibiogramID:  antibiogramID,
				AntibioticCode: code,
			})
		}

		if len(links) == 0 {
			return nil
		}

		err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
		if err != nil {
			return fmt.Errorf("failed to insert associations: %w", err)
		}
		return nil
	})
}

// UpdateStock sets the quantity and minimum threshold of one antibiotic
// and returns the updated record
func (r *GormInventoryRepository) UpdateStock(ctx context.Context, code string, quantity, minStock int) (*domain.Antibiotic, error) {
	var item domain.Antibiotic
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("codigo = ?", code).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAntibioticNotFound
			}
			return fmt.Errorf("failed to lock antibiotic: %w", err)
		}

		item.Quantity = quantity
		item.MinStock = minStock

		err = tx.Model(&domain.Antibiotic{}).
			Where("codigo = ?", code).
			Updates(map[string]interface{}{
				"cantidad":     quantity,
				"stock_minimo": minStock,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SubtractStock decrements one antibiotic's quantity under a row lock.
// The decrement either applies fully or the transaction rolls back with
// ErrAntibioticNotFound or InsufficientStockError.
func (r *GormInventoryRepository) SubtractStock(ctx context.Context, code string, quantity int) (*domain.Antibiotic, error) {
	var item domain.Antibiotic
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("codigo = ?", code).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAntibioticNotFound
			}
			return fmt.Errorf("failed to lock antibiotic: %w", err)
		}

		if item.Quantity < quantity {
			return &domain.InsufficientStockError{Items: []domain.StockShortfall{{
				Code:      item.Code,
				Name:      item.Name,
				Available: item.Quantity,
				Requested: quantity,
			}}}
		}

		item.Quantity -= quantity

		err = tx.Model(&domain.Antibiotic{}).
			Where("codigo = ?", code).
			Update("cantidad", item.Quantity).Error
		if err != nil {
			return fmt.Errorf("failed to update quantity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RegisterOutflow locks every antibiotic of an antibiogram in one statement,
// verifies that all of them can cover the requested units, then decrements
// them together and appends one outflow log row. Locking the full set before
// checking serializes concurrent outflows over overlapping antibiotic sets;
// a deadlock abort from the database surfaces as a plain error and is not
// retried here.
func (r *GormInventoryRepository) RegisterOutflow(ctx context.Context, antibiogramID uint, units int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []domain.Antibiotic
		err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: "antibioticos"},
			}).
			Joins("JOIN antibiograma_antibioticos aa ON aa.antibiotico_codigo = antibioticos.codigo").
			Where("aa.antibiograma_id = ?", antibiogramID).
			Find(&items).Error
		if err != nil {
			return fmt.Errorf("failed to lock associated antibiotics: %w", err)
		}

		if len(items) == 0 {
			return domain.ErrNoAssociations
		}

		var shortfalls []domain.StockShortfall
		codes := make([]string, 0, len(items))
		for _, it := range items {
			codes = append(codes, it.Code)
			if it.Quantity-units < 0 {
				shortfalls = append(shortfalls, domain.StockShortfall{
					Code:      it.Code,
					Name:      it.Name,
					Available: it.Quantity,
					Requested: units,
				})
			}
		}

		// All-or-nothing: one insufficient antibiotic blocks the whole panel
		if len(shortfalls) > 0 {
			return &domain.InsufficientStockError{Items: shortfalls}
		}

		err = tx.Model(&domain.Antibiotic{}).
			Where("codigo IN ?", codes).
			Update("cantidad", gorm.Expr("cantidad - ?", units)).Error
		if err != nil {
			return fmt.Errorf("failed to decrement antibiotics: %w", err)
		}

		outflow := domain.Outflow{AntibiogramID: antibiogramID, Units: units}
		if err := tx.Omit(clause.Associations).Create(&outflow).Error; err != nil {
			return fmt.Errorf("failed to insert outflow: %w", err)
		}
		return nil
	})
}

// ListOutflows returns the most recent outflow log entries
func (r *GormInventoryRepository) ListOutflows(ctx context.Context, limit int) ([]domain.Outflow, error) {
	items := []domain.Outflow{}
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list outflows: %w", err)
	}
	return items, nil
}
