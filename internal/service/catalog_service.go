package service

import (
	"context"
	"errors"
	"fmt"

	"inventory/internal/model"
	"inventory/internal/repository"
	"inventory/pkg/logger"

	"gorm.io/gorm"
)

// DTOs
type CreateProductRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
	MinQuantity int    `json:"min_quantity" binding:"min=0"`
	Description string `json:"description"`
}

type CreateWarehouseRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// UpdateProductRequest carries the updatable fields; nil means "leave as is".
// Code is immutable, it identifies the product.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Unit        *string `json:"unit"`
	MinQuantity *int    `json:"min_quantity"`
	Description *string `json:"description"`
}

// CatalogService owns the product and warehouse registries. Adds report
// duplicates as a false return rather than an error; records are never deleted.
type CatalogService interface {
	AddProduct(ctx context.Context, req CreateProductRequest) (bool, error)
	AddWarehouse(ctx context.Context, req CreateWarehouseRequest) (bool, error)
	GetProduct(ctx context.Context, code string) (*model.Product, error)
	GetWarehouse(ctx context.Context, code string) (*model.Warehouse, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)
	UpdateProduct(ctx context.Context, code string, req UpdateProductRequest) error
}

type catalogService struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) CatalogService {
	return &catalogService{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
	}
}

func (s *catalogService) AddProduct(ctx context.Context, req CreateProductRequest) (bool, error) {
	if req.MinQuantity < 0 {
		return false, fmt.Errorf("min_quantity %d: %w", req.MinQuantity, ErrInvalidQuantity)
	}
	product := model.Product{
		Code:        req.Code,
		Name:        req.Name,
		Unit:        req.Unit,
		MinQuantity: req.MinQuantity,
		Description: req.Description,
	}
	if err := s.productRepo.Create(ctx, &product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("create product: %w", err)
	}
	s.log.Info().Str("code", product.Code).Msg("product added")
	return true, nil
}

func (s *catalogService) AddWarehouse(ctx context.Context, req CreateWarehouseRequest) (bool, error) {
	warehouse := model.Warehouse{
		Code:        req.Code,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	}
	if err := s.warehouseRepo.Create(ctx, &warehouse); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("create warehouse: %w", err)
	}
	s.log.Info().Str("code", warehouse.Code).Msg("warehouse added")
	return true, nil
}

func (s *catalogService) GetProduct(ctx context.Context, code string) (*model.Product, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", code, ErrUnknownProduct)
		}
		return nil, fmt.Errorf("look up product %s: %w", code, err)
	}
	return product, nil
}

func (s *catalogService) GetWarehouse(ctx context.Context, code string) (*model.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("warehouse %s: %w", code, ErrUnknownWarehouse)
		}
		return nil, fmt.Errorf("look up warehouse %s: %w", code, err)
	}
	return warehouse, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *catalogService) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	return s.warehouseRepo.List(ctx)
}

func (s *catalogService) UpdateProduct(ctx context.Context, code string, req UpdateProductRequest) error {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Unit != nil {
		fields["unit"] = *req.Unit
	}
	if req.MinQuantity != nil {
		if *req.MinQuantity < 0 {
			return fmt.Errorf("min_quantity %d: %w", *req.MinQuantity, ErrInvalidQuantity)
		}
		fields["min_quantity"] = *req.MinQuantity
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if len(fields) == 0 {
		return nil
	}

	matched, err := s.productRepo.UpdateFields(ctx, code, fields)
	if err != nil {
		return fmt.Errorf("update product %s: %w", code, err)
	}
	if !matched {
		return fmt.Errorf("product %s: %w", code, ErrUnknownProduct)
	}
	s.log.Info().Str("code", code).Msg("product updated")
	return nil
}
