package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"inventory/internal/model"
	"inventory/internal/repository"
	ws "inventory/internal/websocket"
	"inventory/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type StockInRequest struct {
	ProductCode   string `json:"product_code" binding:"required"`
	WarehouseCode string `json:"warehouse_code" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
	BatchNo       string `json:"batch_no"`
	Reference     string `json:"reference"`
	Operator      string `json:"operator"`
	Notes         string `json:"notes"`
}

type StockOutRequest struct {
	ProductCode   string `json:"product_code" binding:"required"`
	WarehouseCode string `json:"warehouse_code" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
	Reference     string `json:"reference"`
	Operator      string `json:"operator"`
	Notes         string `json:"notes"`
}

// Websocket Payload
type StockEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// LedgerService is the only path by which stock quantities change. Every
// accepted movement updates the pair's stock row and appends exactly one
// journal record inside a single store transaction.
type LedgerService interface {
	StockIn(ctx context.Context, req StockInRequest) (*model.StockTransaction, error)
	StockOut(ctx context.Context, req StockOutRequest) (*model.StockTransaction, error)
}

type ledgerService struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	stockTxRepo   repository.StockTxRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
	log           *logger.Logger
}

func NewLedgerService(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	stockTxRepo repository.StockTxRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	log *logger.Logger,
) LedgerService {
	return &ledgerService{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		stockTxRepo:   stockTxRepo,
		txManager:     txManager,
		hub:           hub,
		log:           log,
	}
}

// checkReferences validates the product and warehouse codes before any write.
func (s *ledgerService) checkReferences(ctx context.Context, productCode, warehouseCode string) (*model.Product, error) {
	product, err := s.productRepo.FindByCode(ctx, productCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productCode, ErrUnknownProduct)
		}
		return nil, fmt.Errorf("look up product %s: %w", productCode, err)
	}
	if _, err := s.warehouseRepo.FindByCode(ctx, warehouseCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("warehouse %s: %w", warehouseCode, ErrUnknownWarehouse)
		}
		return nil, fmt.Errorf("look up warehouse %s: %w", warehouseCode, err)
	}
	return product, nil
}

func (s *ledgerService) StockIn(ctx context.Context, req StockInRequest) (*model.StockTransaction, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("stock in %d: %w", req.Quantity, ErrInvalidQuantity)
	}
	product, err := s.checkReferences(ctx, req.ProductCode, req.WarehouseCode)
	if err != nil {
		return nil, err
	}

	entry := model.StockTransaction{
		MovementID:      uuid.New(),
		TransactionType: model.TxTypeIn,
		ProductCode:     req.ProductCode,
		WarehouseCode:   req.WarehouseCode,
		Quantity:        req.Quantity,
		BatchNo:         req.BatchNo,
		Reference:       req.Reference,
		Operator:        req.Operator,
		Notes:           req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.stockRepo.AddQuantity(txCtx, req.ProductCode, req.WarehouseCode, req.Quantity); err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}
		if err := s.stockTxRepo.Create(txCtx, &entry); err != nil {
			return fmt.Errorf("append stock transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("product", req.ProductCode).
		Str("warehouse", req.WarehouseCode).
		Int("quantity", req.Quantity).
		Str("movement_id", entry.MovementID.String()).
		Msg("stock in accepted")

	s.afterMovement(ctx, "stock_in", product, &entry)
	return &entry, nil
}

func (s *ledgerService) StockOut(ctx context.Context, req StockOutRequest) (*model.StockTransaction, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("stock out %d: %w", req.Quantity, ErrInvalidQuantity)
	}
	product, err := s.checkReferences(ctx, req.ProductCode, req.WarehouseCode)
	if err != nil {
		return nil, err
	}

	entry := model.StockTransaction{
		MovementID:      uuid.New(),
		TransactionType: model.TxTypeOut,
		ProductCode:     req.ProductCode,
		WarehouseCode:   req.WarehouseCode,
		Quantity:        req.Quantity,
		Reference:       req.Reference,
		Operator:        req.Operator,
		Notes:           req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Lock the pair's row for the rest of the transaction, then decrement
		// through the guarded update. The quantity >= ? guard is the
		// non-negativity invariant: two racing withdrawals can never both
		// drain the same units, with or without the row lock.
		stock, err := s.stockRepo.FindForUpdate(txCtx, req.ProductCode, req.WarehouseCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%s at %s has 0, requested %d: %w",
					req.ProductCode, req.WarehouseCode, req.Quantity, ErrInsufficientStock)
			}
			return fmt.Errorf("read stock: %w", err)
		}
		if stock.Quantity < req.Quantity {
			return fmt.Errorf("%s at %s has %d, requested %d: %w",
				req.ProductCode, req.WarehouseCode, stock.Quantity, req.Quantity, ErrInsufficientStock)
		}
		ok, err := s.stockRepo.DeductQuantity(txCtx, req.ProductCode, req.WarehouseCode, req.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if !ok {
			return fmt.Errorf("%s at %s, requested %d: %w",
				req.ProductCode, req.WarehouseCode, req.Quantity, ErrInsufficientStock)
		}
		if err := s.stockTxRepo.Create(txCtx, &entry); err != nil {
			return fmt.Errorf("append stock transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("product", req.ProductCode).
		Str("warehouse", req.WarehouseCode).
		Int("quantity", req.Quantity).
		Str("movement_id", entry.MovementID.String()).
		Msg("stock out accepted")

	s.afterMovement(ctx, "stock_out", product, &entry)
	return &entry, nil
}

// afterMovement publishes the movement to websocket subscribers and, when the
// product just fell below its minimum, a low-stock alert. Runs after commit;
// failures here never affect the ledger.
func (s *ledgerService) afterMovement(ctx context.Context, event string, product *model.Product, entry *model.StockTransaction) {
	s.broadcast(StockEvent{
		Event: event,
		Data: map[string]interface{}{
			"movement_id":    entry.MovementID.String(),
			"product_code":   entry.ProductCode,
			"warehouse_code": entry.WarehouseCode,
			"quantity":       entry.Quantity,
		},
	})

	if event != "stock_out" || product.MinQuantity <= 0 {
		return
	}
	total, err := s.stockRepo.TotalQuantity(ctx, entry.ProductCode)
	if err != nil {
		s.log.Warn().Err(err).Str("product", entry.ProductCode).Msg("low stock check failed")
		return
	}
	if total < product.MinQuantity {
		s.log.Warn().
			Str("product", entry.ProductCode).
			Int("total", total).
			Int("min_quantity", product.MinQuantity).
			Msg("product below minimum quantity")
		s.broadcast(StockEvent{
			Event: "low_stock",
			Data: map[string]interface{}{
				"product_code":   entry.ProductCode,
				"total_quantity": total,
				"min_quantity":   product.MinQuantity,
			},
		})
	}
}

func (s *ledgerService) broadcast(event StockEvent) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case s.hub.Broadcast <- payload:
	default:
		// No subscribers draining the hub; drop rather than block the ledger.
	}
}
