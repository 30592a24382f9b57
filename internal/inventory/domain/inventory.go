package domain

import (
	"context"
	"time"
)

// Antibiotic represents an antibiotic stock record tracked by the lab
type Antibiotic struct {
	Code      string    `json:"codigo" gorm:"column:codigo;primaryKey;size:32"`
	Name      string    `json:"nombre" gorm:"column:nombre;not null"`
	Quantity  int       `json:"cantidad" gorm:"column:cantidad;not null;default:0"`
	MinStock  int       `json:"stock_minimo" gorm:"column:stock_minimo;not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Antibiotic) TableName() string {
	return "antibioticos"
}

// Antibiogram represents a test panel associated with a set of antibiotics
type Antibiogram struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"nombre" gorm:"column:nombre;not null"`
}

// TableName specifies the table name
func (Antibiogram) TableName() string {
	return "antibiogramas"
}

// AntibiogramAntibiotic links an antibiogram with one of its antibiotics
type AntibiogramAntibiotic struct {
	AntibiogramID  uint   `json:"antibiograma_id" gorm:"column:antibiograma_id;primaryKey"`
	AntibioticCode string `json:"antibiotico_codigo" gorm:"column:antibiotico_codigo;primaryKey;size:32"`
}

// TableName specifies the table name
func (AntibiogramAntibiotic) TableName() string {
	return "antibiograma_antibioticos"
}

// Outflow is an append-only log entry for a dispensed antibiogram panel.
// Rows are only ever inserted, never updated or deleted by the service.
type Outflow struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time   `json:"created_at"`
	AntibiogramID uint        `json:"antibiograma_id" gorm:"column:antibiograma_id;not null"`
	Antibiogram   Antibiogram `json:"-" gorm:"foreignKey:AntibiogramID;constraint:OnDelete:CASCADE"`
	Units         int         `json:"unidades" gorm:"column:unidades;not null"`
}

// TableName specifies the table name
func (Outflow) TableName() string {
	return "salidas"
}

// InventoryRepository defines the contract for inventory data access.
// All multi-row mutations run inside a single database transaction and
// roll back completely on any failure.
type InventoryRepository interface {
	ListAntibiotics(ctx context.Context) ([]Antibiotic, error)
	FindAntibiotic(ctx context.Context, code string) (*Antibiotic, error)
	ListAntibiograms(ctx context.Context) ([]Antibiogram, error)
	ListLowStock(ctx context.Context) ([]Antibiotic, error)

	AssociatedCodes(ctx context.Context, antibiogramID uint) ([]string, error)
	AssociatedAntibiotics(ctx context.Context, antibiogramID uint) ([]Antibiotic, error)
	ReplaceAssociations(ctx context.Context, antibiogramID uint, codes []string) error

	UpdateStock(ctx context.Context, code string, quantity, minStock int) (*Antibiotic, error)
	SubtractStock(ctx context.Context, code string, quantity int) (*Antibiotic, error)
	RegisterOutflow(ctx context.Context, antibiogramID uint, units int) error
	ListOutflows(ctx context.Context, limit int) ([]Outflow, error)
}
