package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
)

// InventorySvcFacade manages the item/warehouse catalog and stock reads.
type InventorySvcFacade interface {
	// CreateItem creates a stockable item.
	CreateItem(ctx context.Context, companyID string, req dto.CreateItemRequest, userID string) (*domain.Item, error)

	// GetItemByID retrieves an item.
	GetItemByID(ctx context.Context, companyID, itemID string) (*domain.Item, error)

	// CreateWarehouse creates a stock location.
	CreateWarehouse(ctx context.Context, companyID string, req dto.CreateWarehouseRequest, userID string) (*domain.Warehouse, error)

	// GetStock returns the quantity on hand for one (item, warehouse).
	GetStock(ctx context.Context, itemID, warehouseID string) (decimal.Decimal, error)
}
