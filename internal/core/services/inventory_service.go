package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

// inventoryService manages the item/warehouse catalog. Stock levels are
// mutated only by the posting engine; this service reads them.
type inventoryService struct {
	inventoryRepo portsrepo.InventoryRepositoryFacade
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepositoryFacade) portssvc.InventorySvcFacade {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// CreateItem creates a stockable item.
func (s *inventoryService) CreateItem(ctx context.Context, companyID string, req dto.CreateItemRequest, userID string) (*domain.Item, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.GSTRatePercent.IsNegative() {
		return nil, fmt.Errorf("%w: gst rate must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	item := domain.Item{
		ItemID:         uuid.NewString(),
		CompanyID:      companyID,
		Name:           req.Name,
		Unit:           req.Unit,
		GSTRatePercent: req.GSTRatePercent,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.inventoryRepo.SaveItem(ctx, item); err != nil {
		logger.Error("Failed to save item", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	logger.Info("Item created", slog.String("item_id", item.ItemID), slog.String("name", item.Name))
	return &item, nil
}

// GetItemByID retrieves an item, scoped to the company.
func (s *inventoryService) GetItemByID(ctx context.Context, companyID, itemID string) (*domain.Item, error) {
	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find item %s: %w", itemID, err)
	}
	if item.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return item, nil
}

// CreateWarehouse creates a stock location.
func (s *inventoryService) CreateWarehouse(ctx context.Context, companyID string, req dto.CreateWarehouseRequest, userID string) (*domain.Warehouse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	warehouse := domain.Warehouse{
		WarehouseID: uuid.NewString(),
		CompanyID:   companyID,
		Name:        req.Name,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.inventoryRepo.SaveWarehouse(ctx, warehouse); err != nil {
		logger.Error("Failed to save warehouse", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save warehouse: %w", err)
	}

	logger.Info("Warehouse created", slog.String("warehouse_id", warehouse.WarehouseID), slog.String("name", warehouse.Name))
	return &warehouse, nil
}

// GetStock returns the quantity on hand for one (item, warehouse). A bucket
// that has never moved reads as zero.
func (s *inventoryService) GetStock(ctx context.Context, itemID, warehouseID string) (decimal.Decimal, error) {
	qty, err := s.inventoryRepo.GetStock(ctx, itemID, warehouseID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read stock for item %s warehouse %s: %w", itemID, warehouseID, err)
	}
	return qty, nil
}
