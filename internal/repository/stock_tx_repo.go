package repository

import (
	"context"
	"strings"

	"inventory/internal/model"

	"gorm.io/gorm"
)

// TransactionFilter narrows journal listings; zero values mean "no filter".
// All present filters are ANDed.
type TransactionFilter struct {
	ProductCode     string
	WarehouseCode   string
	TransactionType string
	Limit           int
}

type StockTxRepository interface {
	Create(ctx context.Context, tx *model.StockTransaction) error
	List(ctx context.Context, filter TransactionFilter) ([]model.TransactionView, error)
	Count(ctx context.Context) (int64, error)
}

type stockTxRepository struct {
	db *gorm.DB
}

func NewStockTxRepository(db *gorm.DB) StockTxRepository {
	return &stockTxRepository{db: db}
}

func (r *stockTxRepository) Create(ctx context.Context, tx *model.StockTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

// List returns journal rows matching the filter, most recent first. Ordering is
// by the autoincrement id, which is the acceptance order of the movements.
func (r *stockTxRepository) List(ctx context.Context, filter TransactionFilter) ([]model.TransactionView, error) {
	db := GetDB(ctx, r.db).Table("stock_transactions").
		Select(`stock_transactions.id, stock_transactions.movement_id,
stock_transactions.transaction_type, stock_transactions.product_code,
products.name AS product_name, stock_transactions.warehouse_code,
warehouses.name AS warehouse_name, stock_transactions.quantity,
stock_transactions.batch_no, stock_transactions.reference,
stock_transactions.operator, stock_transactions.notes, stock_transactions.created_at`).
		Joins("JOIN products ON products.code = stock_transactions.product_code").
		Joins("JOIN warehouses ON warehouses.code = stock_transactions.warehouse_code")

	if filter.ProductCode != "" {
		db = db.Where("stock_transactions.product_code = ?", filter.ProductCode)
	}
	if filter.WarehouseCode != "" {
		db = db.Where("stock_transactions.warehouse_code = ?", filter.WarehouseCode)
	}
	if filter.TransactionType != "" {
		db = db.Where("stock_transactions.transaction_type = ?", strings.ToUpper(filter.TransactionType))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var views []model.TransactionView
	if err := db.Order("stock_transactions.id DESC").Limit(limit).Find(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (r *stockTxRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.StockTransaction{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
