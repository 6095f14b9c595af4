package repository

import (
	"context"
	"time"

	"inventory/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	FindForUpdate(ctx context.Context, productCode, warehouseCode string) (*model.Stock, error)
	AddQuantity(ctx context.Context, productCode, warehouseCode string, quantity int) error
	DeductQuantity(ctx context.Context, productCode, warehouseCode string, quantity int) (bool, error)
	GetView(ctx context.Context, productCode, warehouseCode string) (*model.StockView, error)
	ListByProduct(ctx context.Context, productCode string) ([]model.StockView, error)
	ListAll(ctx context.Context) ([]model.StockView, error)
	LowStock(ctx context.Context) ([]model.LowStockItem, error)
	TotalQuantity(ctx context.Context, productCode string) (int, error)
	CountNonZero(ctx context.Context) (int64, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

// FindForUpdate locks the pair's row for the rest of the transaction. SQLite has
// no FOR UPDATE; there the store-level immediate transaction already serializes
// writers, so the locking clause is only added on postgres.
func (r *stockRepository) FindForUpdate(ctx context.Context, productCode, warehouseCode string) (*model.Stock, error) {
	db := GetDB(ctx, r.db)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var stock model.Stock
	if err := db.
		Where("product_code = ? AND warehouse_code = ?", productCode, warehouseCode).
		First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// AddQuantity upserts the pair's row, incrementing in place when it exists.
func (r *stockRepository) AddQuantity(ctx context.Context, productCode, warehouseCode string, quantity int) error {
	stock := model.Stock{
		ProductCode:   productCode,
		WarehouseCode: warehouseCode,
		Quantity:      quantity,
		UpdatedAt:     time.Now(),
	}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_code"}, {Name: "warehouse_code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now(),
		}),
	}).Create(&stock).Error
}

// DeductQuantity decrements the pair's row only while enough stock remains; the
// quantity guard in the WHERE keeps the row non-negative even without a row
// lock. Returns false when the guard rejected the update.
func (r *stockRepository) DeductQuantity(ctx context.Context, productCode, warehouseCode string, quantity int) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.Stock{}).
		Where("product_code = ? AND warehouse_code = ? AND quantity >= ?", productCode, warehouseCode, quantity).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

const stockViewSelect = `stocks.product_code, products.name AS product_name, products.unit,
stocks.warehouse_code, warehouses.name AS warehouse_name, stocks.quantity, stocks.updated_at`

func (r *stockRepository) stockViewQuery(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).Table("stocks").
		Select(stockViewSelect).
		Joins("JOIN products ON products.code = stocks.product_code").
		Joins("JOIN warehouses ON warehouses.code = stocks.warehouse_code")
}

func (r *stockRepository) GetView(ctx context.Context, productCode, warehouseCode string) (*model.StockView, error) {
	var view model.StockView
	err := r.stockViewQuery(ctx).
		Where("stocks.product_code = ? AND stocks.warehouse_code = ?", productCode, warehouseCode).
		Take(&view).Error
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *stockRepository) ListByProduct(ctx context.Context, productCode string) ([]model.StockView, error) {
	var views []model.StockView
	err := r.stockViewQuery(ctx).
		Where("stocks.product_code = ? AND stocks.quantity > 0", productCode).
		Order("stocks.warehouse_code").
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *stockRepository) ListAll(ctx context.Context) ([]model.StockView, error) {
	var views []model.StockView
	err := r.stockViewQuery(ctx).
		Where("stocks.quantity > 0").
		Order("stocks.product_code, stocks.warehouse_code").
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// LowStock reports products whose quantity summed over all warehouses is below
// the configured minimum, most deficient first. Products with no threshold
// (min_quantity = 0) never appear.
func (r *stockRepository) LowStock(ctx context.Context) ([]model.LowStockItem, error) {
	var items []model.LowStockItem
	err := GetDB(ctx, r.db).Table("products").
		Select(`products.code AS product_code, products.name AS product_name, products.unit,
products.min_quantity, COALESCE(SUM(stocks.quantity), 0) AS total_quantity,
products.min_quantity - COALESCE(SUM(stocks.quantity), 0) AS deficit`).
		Joins("LEFT JOIN stocks ON stocks.product_code = products.code").
		Where("products.min_quantity > 0").
		Group("products.code, products.name, products.unit, products.min_quantity").
		Having("COALESCE(SUM(stocks.quantity), 0) < products.min_quantity").
		Order("deficit DESC, products.code").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// TotalQuantity sums a product's stock over all warehouses.
func (r *stockRepository) TotalQuantity(ctx context.Context, productCode string) (int, error) {
	var total struct{ Total int }
	err := GetDB(ctx, r.db).Model(&model.Stock{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("product_code = ?", productCode).
		Take(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Total, nil
}

func (r *stockRepository) CountNonZero(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Stock{}).
		Where("quantity > 0").Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
