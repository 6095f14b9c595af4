package service

import (
	"context"
	"testing"

	"inventory/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCatalog registers a set of products and warehouses without the single
// pair assumption of fixture.seed.
func seedCatalog(t *testing.T, f *fixture, products map[string]int, warehouses ...string) {
	t.Helper()
	ctx := context.Background()
	for code, min := range products {
		created, err := f.catalog.AddProduct(ctx, CreateProductRequest{
			Code: code, Name: "Product " + code, Unit: "pcs", MinQuantity: min,
		})
		require.NoError(t, err)
		require.True(t, created)
	}
	for _, code := range warehouses {
		created, err := f.catalog.AddWarehouse(ctx, CreateWarehouseRequest{
			Code: code, Name: "Warehouse " + code,
		})
		require.NoError(t, err)
		require.True(t, created)
	}
}

func mustStockIn(t *testing.T, f *fixture, product, warehouse string, qty int) {
	t.Helper()
	_, err := f.ledger.StockIn(context.Background(), StockInRequest{
		ProductCode: product, WarehouseCode: warehouse, Quantity: qty,
	})
	require.NoError(t, err)
}

func mustStockOut(t *testing.T, f *fixture, product, warehouse string, qty int) {
	t.Helper()
	_, err := f.ledger.StockOut(context.Background(), StockOutRequest{
		ProductCode: product, WarehouseCode: warehouse, Quantity: qty,
	})
	require.NoError(t, err)
}

func TestGetStockResolvesNames(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	f.seed(t, "SKU1", "WH1", 0)
	mustStockIn(t, f, "SKU1", "WH1", 10)

	view, err := f.reports.GetStock(context.Background(), "SKU1", "WH1")
	require.NoError(t, err)
	assert.Equal(t, "SKU1", view.ProductCode)
	assert.Equal(t, "Widget", view.ProductName)
	assert.Equal(t, "WH1", view.WarehouseCode)
	assert.Equal(t, "Main", view.WarehouseName)
	assert.Equal(t, "pcs", view.Unit)
	assert.Equal(t, 10, view.Quantity)
}

func TestGetStockUntouchedPairReadsZero(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	f.seed(t, "SKU1", "WH1", 0)

	// Both codes exist but no movement has touched the pair.
	view, err := f.reports.GetStock(context.Background(), "SKU1", "WH1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Quantity)
	assert.Equal(t, "Widget", view.ProductName)
}

func TestGetStockUnknownCodes(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	f.seed(t, "SKU1", "WH1", 0)
	ctx := context.Background()

	_, err := f.reports.GetStock(ctx, "NOPE", "WH1")
	require.ErrorIs(t, err, ErrUnknownProduct)
	_, err = f.reports.GetStock(ctx, "SKU1", "NOPE")
	require.ErrorIs(t, err, ErrUnknownWarehouse)
	_, err = f.reports.GetStockByProduct(ctx, "NOPE")
	require.ErrorIs(t, err, ErrUnknownProduct)
}

func TestGetAllStockHidesDrainedPairs(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	seedCatalog(t, f, map[string]int{"SKU1": 0, "SKU2": 0}, "WH1", "WH2")

	mustStockIn(t, f, "SKU1", "WH1", 10)
	mustStockIn(t, f, "SKU1", "WH2", 4)
	mustStockIn(t, f, "SKU2", "WH1", 6)
	// Drain one pair entirely.
	mustStockOut(t, f, "SKU1", "WH2", 4)

	views, err := f.reports.GetAllStock(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "SKU1", views[0].ProductCode)
	assert.Equal(t, "WH1", views[0].WarehouseCode)
	assert.Equal(t, 10, views[0].Quantity)
	assert.Equal(t, "SKU2", views[1].ProductCode)
	assert.Equal(t, 6, views[1].Quantity)
}

func TestGetStockByProduct(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	seedCatalog(t, f, map[string]int{"SKU1": 0}, "WH1", "WH2")

	mustStockIn(t, f, "SKU1", "WH1", 3)
	mustStockIn(t, f, "SKU1", "WH2", 8)

	views, err := f.reports.GetStockByProduct(context.Background(), "SKU1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "WH1", views[0].WarehouseCode)
	assert.Equal(t, 3, views[0].Quantity)
	assert.Equal(t, "WH2", views[1].WarehouseCode)
	assert.Equal(t, 8, views[1].Quantity)
}

func TestLowStockAggregatesAcrossWarehouses(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	seedCatalog(t, f, map[string]int{"SKU1": 5, "SKU2": 5, "SKU3": 0}, "WH1", "WH2")
	ctx := context.Background()

	// SKU1: 3 + 4 = 7 total, above its minimum of 5.
	mustStockIn(t, f, "SKU1", "WH1", 3)
	mustStockIn(t, f, "SKU1", "WH2", 4)
	// SKU2: 4 total, below 5.
	mustStockIn(t, f, "SKU2", "WH1", 4)
	// SKU3 has no minimum configured and never appears.

	items, err := f.reports.GetLowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU2", items[0].ProductCode)
	assert.Equal(t, 4, items[0].TotalQuantity)
	assert.Equal(t, 5, items[0].MinQuantity)
	assert.Equal(t, 1, items[0].Deficit)

	// Dropping SKU1 to 4 total puts it on the list too.
	mustStockOut(t, f, "SKU1", "WH2", 3)
	items, err = f.reports.GetLowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestLowStockIncludesProductsWithNoStockRows(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	seedCatalog(t, f, map[string]int{"SKU1": 5}, "WH1")

	// Never stocked: total is zero, deficit is the full minimum.
	items, err := f.reports.GetLowStockProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU1", items[0].ProductCode)
	assert.Equal(t, 0, items[0].TotalQuantity)
	assert.Equal(t, 5, items[0].Deficit)
}

func TestLowStockOrderedByDeficit(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	seedCatalog(t, f, map[string]int{"SKU1": 10, "SKU2": 10}, "WH1")

	mustStockIn(t, f, "SKU1", "WH1", 8) // deficit 2
	mustStockIn(t, f, "SKU2", "WH1", 3) // deficit 7

	items, err := f.reports.GetLowStockProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "SKU2", items[0].ProductCode)
	assert.Equal(t, 7, items[0].Deficit)
	assert.Equal(t, "SKU1", items[1].ProductCode)
}

func TestGetTransactionsFilters(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	seedCatalog(t, f, map[string]int{"SKU1": 0, "SKU2": 0}, "WH1", "WH2")
	ctx := context.Background()

	mustStockIn(t, f, "SKU1", "WH1", 10)
	mustStockIn(t, f, "SKU2", "WH1", 10)
	mustStockIn(t, f, "SKU1", "WH2", 10)
	mustStockOut(t, f, "SKU1", "WH1", 2)

	views, err := f.reports.GetTransactions(ctx, repository.TransactionFilter{ProductCode: "SKU1"})
	require.NoError(t, err)
	assert.Len(t, views, 3)

	views, err = f.reports.GetTransactions(ctx, repository.TransactionFilter{ProductCode: "SKU1", WarehouseCode: "WH1"})
	require.NoError(t, err)
	assert.Len(t, views, 2)

	// Type filter is case-insensitive.
	views, err = f.reports.GetTransactions(ctx, repository.TransactionFilter{TransactionType: "out"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "SKU1", views[0].ProductCode)
	assert.Equal(t, 2, views[0].Quantity)

	views, err = f.reports.GetTransactions(ctx, repository.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestGetTransactionsResolvesNames(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	f.seed(t, "SKU1", "WH1", 0)
	mustStockIn(t, f, "SKU1", "WH1", 1)

	views, err := f.reports.GetTransactions(context.Background(), repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Widget", views[0].ProductName)
	assert.Equal(t, "Main", views[0].WarehouseName)
	assert.NotEmpty(t, views[0].MovementID)
}

func TestGetStockSummary(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	seedCatalog(t, f, map[string]int{"SKU1": 5, "SKU2": 0}, "WH1", "WH2")

	mustStockIn(t, f, "SKU1", "WH1", 2) // below min 5 across warehouses
	mustStockIn(t, f, "SKU2", "WH1", 9)
	mustStockIn(t, f, "SKU2", "WH2", 1)
	mustStockOut(t, f, "SKU2", "WH2", 1) // drains the pair

	summary, err := f.reports.GetStockSummary(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.TotalProducts)
	assert.EqualValues(t, 2, summary.TotalWarehouses)
	assert.EqualValues(t, 2, summary.TotalStockItems) // drained pair excluded
	assert.EqualValues(t, 1, summary.LowStockCount)
	assert.EqualValues(t, 4, summary.TotalTransactions)
}

func TestGetStockSummaryEmptyStore(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)

	summary, err := f.reports.GetStockSummary(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.TotalProducts)
	assert.EqualValues(t, 0, summary.TotalWarehouses)
	assert.EqualValues(t, 0, summary.TotalStockItems)
	assert.EqualValues(t, 0, summary.LowStockCount)
	assert.EqualValues(t, 0, summary.TotalTransactions)
}
