package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents an item in the catalog. Code is the business key used by
// every ledger operation; MinQuantity is the reorder threshold.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Unit        string    `gorm:"type:varchar(50);not null" json:"unit"`
	MinQuantity int       `gorm:"type:int;default:0;not null" json:"min_quantity"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Warehouse represents a stock location.
type Warehouse struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w *Warehouse) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Stock is the materialized on-hand quantity per (product, warehouse) pair.
// Derived state: only the ledger writes it, and its quantity always equals the
// signed sum of the pair's stock transactions.
type Stock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductCode   string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_stock_pair" json:"product_code"`
	WarehouseCode string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_stock_pair" json:"warehouse_code"`
	Quantity      int       `gorm:"type:int;not null;default:0;check:quantity >= 0" json:"quantity"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Stock) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TransactionType Enum Simulation
const (
	TxTypeIn  = "IN"
	TxTypeOut = "OUT"
)

// StockTransaction records stock changes strictly: one immutable row per
// accepted movement, never updated or deleted. The autoincrement ID makes
// history ordering the acceptance ordering.
type StockTransaction struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MovementID      uuid.UUID `gorm:"type:uuid;not null;index" json:"movement_id"`
	TransactionType string    `gorm:"type:varchar(10);not null" json:"transaction_type"` // IN, OUT
	ProductCode     string    `gorm:"type:varchar(100);not null;index" json:"product_code"`
	WarehouseCode   string    `gorm:"type:varchar(100);not null;index" json:"warehouse_code"`
	Quantity        int       `gorm:"type:int;not null" json:"quantity"`
	BatchNo         string    `gorm:"type:varchar(100)" json:"batch_no,omitempty"`
	Reference       string    `gorm:"type:varchar(100)" json:"reference,omitempty"`
	Operator        string    `gorm:"type:varchar(100)" json:"operator,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
