package service

import (
	"context"
	"errors"
	"fmt"

	"inventory/internal/model"
	"inventory/internal/repository"

	"gorm.io/gorm"
)

// ReportService is the read-only side: stock views, low-stock detection,
// transaction history and summary counters. It never mutates the store.
type ReportService interface {
	GetStock(ctx context.Context, productCode, warehouseCode string) (*model.StockView, error)
	GetStockByProduct(ctx context.Context, productCode string) ([]model.StockView, error)
	GetAllStock(ctx context.Context) ([]model.StockView, error)
	GetLowStockProducts(ctx context.Context) ([]model.LowStockItem, error)
	GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.TransactionView, error)
	GetStockSummary(ctx context.Context) (*model.StockSummary, error)
}

type reportService struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	stockTxRepo   repository.StockTxRepository
}

func NewReportService(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	stockTxRepo repository.StockTxRepository,
) ReportService {
	return &reportService{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		stockTxRepo:   stockTxRepo,
	}
}

// GetStock returns the denormalized stock row for one (product, warehouse)
// pair. A pair that has never been touched reports quantity 0 rather than an
// error, but both codes must exist.
func (s *reportService) GetStock(ctx context.Context, productCode, warehouseCode string) (*model.StockView, error) {
	product, err := s.productRepo.FindByCode(ctx, productCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productCode, ErrUnknownProduct)
		}
		return nil, fmt.Errorf("look up product %s: %w", productCode, err)
	}
	warehouse, err := s.warehouseRepo.FindByCode(ctx, warehouseCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("warehouse %s: %w", warehouseCode, ErrUnknownWarehouse)
		}
		return nil, fmt.Errorf("look up warehouse %s: %w", warehouseCode, err)
	}

	view, err := s.stockRepo.GetView(ctx, productCode, warehouseCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.StockView{
				ProductCode:   product.Code,
				ProductName:   product.Name,
				Unit:          product.Unit,
				WarehouseCode: warehouse.Code,
				WarehouseName: warehouse.Name,
				Quantity:      0,
			}, nil
		}
		return nil, fmt.Errorf("get stock view: %w", err)
	}
	return view, nil
}

// GetStockByProduct lists the product's stock per warehouse, omitting
// zero-quantity rows.
func (s *reportService) GetStockByProduct(ctx context.Context, productCode string) ([]model.StockView, error) {
	if _, err := s.productRepo.FindByCode(ctx, productCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productCode, ErrUnknownProduct)
		}
		return nil, fmt.Errorf("look up product %s: %w", productCode, err)
	}
	return s.stockRepo.ListByProduct(ctx, productCode)
}

// GetAllStock lists every pair currently holding stock (quantity > 0), ordered
// by product then warehouse.
func (s *reportService) GetAllStock(ctx context.Context) ([]model.StockView, error) {
	return s.stockRepo.ListAll(ctx)
}

func (s *reportService) GetLowStockProducts(ctx context.Context) ([]model.LowStockItem, error) {
	return s.stockRepo.LowStock(ctx)
}

func (s *reportService) GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.TransactionView, error) {
	return s.stockTxRepo.List(ctx, filter)
}

func (s *reportService) GetStockSummary(ctx context.Context) (*model.StockSummary, error) {
	summary := &model.StockSummary{}
	var err error

	if summary.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if summary.TotalWarehouses, err = s.warehouseRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count warehouses: %w", err)
	}
	if summary.TotalStockItems, err = s.stockRepo.CountNonZero(ctx); err != nil {
		return nil, fmt.Errorf("count stock items: %w", err)
	}
	low, err := s.stockRepo.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("count low stock: %w", err)
	}
	summary.LowStockCount = int64(len(low))
	if summary.TotalTransactions, err = s.stockTxRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}
	return summary, nil
}
