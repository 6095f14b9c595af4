package model

import "time"

// StockView is a denormalized stock row for reporting: the raw pair plus the
// product/warehouse names and unit resolved by join.
type StockView struct {
	ProductCode   string    `json:"product_code"`
	ProductName   string    `json:"product_name"`
	Unit          string    `json:"unit"`
	WarehouseCode string    `json:"warehouse_code"`
	WarehouseName string    `json:"warehouse_name"`
	Quantity      int       `json:"quantity"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LowStockItem represents a product whose total on-hand quantity across all
// warehouses has fallen below its configured minimum.
type LowStockItem struct {
	ProductCode   string `json:"product_code"`
	ProductName   string `json:"product_name"`
	Unit          string `json:"unit"`
	MinQuantity   int    `json:"min_quantity"`
	TotalQuantity int    `json:"total_quantity"`
	Deficit       int    `json:"deficit"`
}

// TransactionView is a journal row with the product and warehouse names resolved.
type TransactionView struct {
	ID              uint      `json:"id"`
	MovementID      string    `json:"movement_id"`
	TransactionType string    `json:"transaction_type"`
	ProductCode     string    `json:"product_code"`
	ProductName     string    `json:"product_name"`
	WarehouseCode   string    `json:"warehouse_code"`
	WarehouseName   string    `json:"warehouse_name"`
	Quantity        int       `json:"quantity"`
	BatchNo         string    `json:"batch_no,omitempty"`
	Reference       string    `json:"reference,omitempty"`
	Operator        string    `json:"operator,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// StockSummary aggregates headline counters for the whole store.
type StockSummary struct {
	TotalProducts     int64 `json:"total_products"`
	TotalWarehouses   int64 `json:"total_warehouses"`
	TotalStockItems   int64 `json:"total_stock_items"` // pairs with quantity > 0
	LowStockCount     int64 `json:"low_stock_count"`
	TotalTransactions int64 `json:"total_transactions"`
}
