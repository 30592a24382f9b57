package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/clinilab/antibiogram-stock/internal/inventory/domain"
	"github.com/clinilab/antibiogram-stock/internal/inventory/repository"
	"github.com/clinilab/antibiogram-stock/internal/inventory/usecase/command"
	"github.com/clinilab/antibiogram-stock/internal/inventory/usecase/query"
)

// ProvideInventoryRepository provides the inventory repository wrapped
// with tracing so repository spans nest under the incoming request span
func ProvideInventoryRepository(db *gorm.DB) domain.InventoryRepository {
	return repository.NewGormInventoryRepositoryWithTracing(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideInventoryRepository,
)

var UsecaseSet = wire.NewSet(
	command.NewSubtractStockHandler,
	command.NewRegisterOutflowHandler,
	command.NewReplaceAssociationsHandler,
	command.NewUpdateStockHandler,
	query.NewListAntibioticsHandler,
	query.NewListAntibiogramsHandler,
	query.NewLowStockHandler,
	query.NewGetAssociationsHandler,
	query.NewGetAntibioticHandler,
	query.NewListOutflowsHandler,
)
