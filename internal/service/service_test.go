package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"inventory/internal/database"
	"inventory/internal/model"
	"inventory/internal/repository"
	"inventory/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a unique in-memory database per test to avoid cross-test
// collisions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// setupFileDB opens a file-backed store in a temp dir; used by concurrency
// tests, which need real writer serialization.
func setupFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db      *gorm.DB
	catalog CatalogService
	ledger  LedgerService
	reports ReportService
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	stockRepo := repository.NewStockRepository(db)
	stockTxRepo := repository.NewStockTxRepository(db)
	txManager := repository.NewTransactionManager(db)
	log := logger.Nop()

	return &fixture{
		db:      db,
		catalog: NewCatalogService(productRepo, warehouseRepo, log),
		ledger:  NewLedgerService(productRepo, warehouseRepo, stockRepo, stockTxRepo, txManager, nil, log),
		reports: NewReportService(productRepo, warehouseRepo, stockRepo, stockTxRepo),
	}
}

// seed registers a product and a warehouse most tests need.
func (f *fixture) seed(t *testing.T, productCode, warehouseCode string, minQuantity int) {
	t.Helper()
	ctx := context.Background()
	created, err := f.catalog.AddProduct(ctx, CreateProductRequest{
		Code: productCode, Name: "Widget", Unit: "pcs", MinQuantity: minQuantity,
	})
	require.NoError(t, err)
	require.True(t, created)
	created, err = f.catalog.AddWarehouse(ctx, CreateWarehouseRequest{
		Code: warehouseCode, Name: "Main",
	})
	require.NoError(t, err)
	require.True(t, created)
}

// quantityOf reads the raw stock row, bypassing the service layer.
func quantityOf(t *testing.T, db *gorm.DB, productCode, warehouseCode string) int {
	t.Helper()
	var stock model.Stock
	err := db.Where("product_code = ? AND warehouse_code = ?", productCode, warehouseCode).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	require.NoError(t, err)
	return stock.Quantity
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var total int64
	require.NoError(t, db.Model(&model.StockTransaction{}).Count(&total).Error)
	return total
}
