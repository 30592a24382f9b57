package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
)

func getTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=antibiogramas_test sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		t.Skipf("PostgreSQL not available")
	}

	repo := NewGormInventoryRepository(db)
	require.NoError(t, repo.AutoMigrate())

	return db
}

func seed(t *testing.T, db *gorm.DB) *GormInventoryRepository {
	t.Helper()

	// Order matters: outflows and associations reference the other tables
	require.NoError(t, db.Exec("DELETE FROM salidas").Error)
	require.NoError(t, db.Exec("DELETE FROM antibiograma_antibioticos").Error)
	require.NoError(t, db.Exec("DELETE FROM antibiogramas").Error)
	require.NoError(t, db.Exec("DELETE FROM antibioticos").Error)

	require.NoError(t, db.Create(&[]domain.Antibiotic{
		{Code: "AMX", Name: "Amoxicilina", Quantity: 10, MinStock: 5},
		{Code: "CIP", Name: "Ciprofloxacino", Quantity: 3, MinStock: 2},
		{Code: "GEN", Name: "Gentamicina", Quantity: 50, MinStock: 10},
	}).Error)
	require.NoError(t, db.Create(&domain.Antibiogram{ID: 3, Name: "Urocultivo"}).Error)

	return NewGormInventoryRepository(db)
}

func quantityOf(t *testing.T, repo *GormInventoryRepository, code string) int {
	t.Helper()
	item, err := repo.FindAntibiotic(context.Background(), code)
	require.NoError(t, err)
	return item.Quantity
}

func TestSubtractStock(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)

	item, err := repo.SubtractStock(context.Background(), "AMX", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)
	assert.Equal(t, 6, quantityOf(t, repo, "AMX"))
}

func TestSubtractStock_InsufficientLeavesRowUntouched(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)

	_, err := repo.SubtractStock(context.Background(), "AMX", 12)
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 10, insufficient.Items[0].Available)

	assert.Equal(t, 10, quantityOf(t, repo, "AMX"))
}

func TestSubtractStock_NotFound(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)

	_, err := repo.SubtractStock(context.Background(), "XXX", 1)
	assert.ErrorIs(t, err, domain.ErrAntibioticNotFound)
}

func TestSubtractStock_ConcurrentNeverOversells(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)

	totalRequests := 25 // stock is only 10

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.SubtractStock(context.Background(), "AMX", 1); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), successCount.Load())
	assert.Equal(t, 0, quantityOf(t, repo, "AMX"))
}

func TestRegisterOutflow_DecrementsAllAndLogsOnce(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)
	require.NoError(t, repo.ReplaceAssociations(context.Background(), 3, []string{"AMX", "CIP"}))

	require.NoError(t, repo.RegisterOutflow(context.Background(), 3, 2))

	assert.Equal(t, 8, quantityOf(t, repo, "AMX"))
	assert.Equal(t, 1, quantityOf(t, repo, "CIP"))

	outflows, err := repo.ListOutflows(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, outflows, 1)
	assert.Equal(t, uint(3), outflows[0].AntibiogramID)
	assert.Equal(t, 2, outflows[0].Units)
}

func TestRegisterOutflow_InsufficientRollsBackEverything(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)
	require.NoError(t, repo.ReplaceAssociations(context.Background(), 3, []string{"AMX", "CIP"}))

	err := repo.RegisterOutflow(context.Background(), 3, 5)
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	require.Len(t, insufficient.Items, 1)
	assert.Equal(t, "CIP", insufficient.Items[0].Code)

	// Atomicity: neither antibiotic changed, no log row appended
	assert.Equal(t, 10, quantityOf(t, repo, "AMX"))
	assert.Equal(t, 3, quantityOf(t, repo, "CIP"))

	outflows, err := repo.ListOutflows(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, outflows)
}

func TestRegisterOutflow_NoAssociations(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)

	err := repo.RegisterOutflow(context.Background(), 3, 1)
	assert.ErrorIs(t, err, domain.ErrNoAssociations)
}

func TestReplaceAssociations_DuplicatesCollapse(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)

	require.NoError(t, repo.ReplaceAssociations(context.Background(), 3, []string{"AMX", "AMX", "CIP"}))

	codes, err := repo.AssociatedCodes(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"AMX", "CIP"}, codes)
}

func TestReplaceAssociations_EmptyListClears(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)
	require.NoError(t, repo.ReplaceAssociations(context.Background(), 3, []string{"AMX", "CIP"}))

	require.NoError(t, repo.ReplaceAssociations(context.Background(), 3, nil))

	codes, err := repo.AssociatedCodes(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestAssociatedAntibiotics_OrderedByName(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)
	require.NoError(t, repo.ReplaceAssociations(context.Background(), 3, []string{"GEN", "AMX"}))

	items, err := repo.AssociatedAntibiotics(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "AMX", items[0].Code)
	assert.Equal(t, "GEN", items[1].Code)
}

func TestListLowStock_OrderedByShortfall(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)

	// AMX 10/5 and GEN 50/10 are fine; push both below threshold
	_, err := repo.UpdateStock(context.Background(), "AMX", 1, 5)
	require.NoError(t, err)
	_, err = repo.UpdateStock(context.Background(), "GEN", 9, 10)
	require.NoError(t, err)

	items, err := repo.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// AMX is 4 below threshold, GEN only 1 below
	assert.Equal(t, "AMX", items[0].Code)
	assert.Equal(t, "GEN", items[1].Code)
}

func TestUpdateStock_NotFound(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)

	_, err := repo.UpdateStock(context.Background(), "XXX", 1, 1)
	assert.ErrorIs(t, err, domain.ErrAntibioticNotFound)
}

func TestListReads_EmptyTablesReturnEmptySlices(t *testing.T) {
	db := getTestDB(t)
	repo := seed(t, db)

	require.NoError(t, db.Exec("DELETE FROM antibiograma_antibioticos").Error)
	require.NoError(t, db.Exec("DELETE FROM antibiogramas").Error)
	require.NoError(t, db.Exec("DELETE FROM antibioticos").Error)

	// Empty results must encode as JSON [] rather than null
	antibiotics, err := repo.ListAntibiotics(context.Background())
	require.NoError(t, err)
	require.NotNil(t, antibiotics)
	assert.Empty(t, antibiotics)

	antibiograms, err := repo.ListAntibiograms(context.Background())
	require.NoError(t, err)
	require.NotNil(t, antibiograms)
	assert.Empty(t, antibiograms)

	lowStock, err := repo.ListLowStock(context.Background())
	require.NoError(t, err)
	require.NotNil(t, lowStock)

	outflows, err := repo.ListOutflows(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, outflows)
}

func TestTracedRepository_SubtractStock(t *testing.T) {
	db := getTestDB(t)
	seed(t, db)

	traced := NewGormInventoryRepositoryWithTracing(db)

	item, err := traced.SubtractStock(context.Background(), "AMX", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)

	_, err = traced.SubtractStock(context.Background(), "AMX", 100)
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
}
