package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// ItemReader defines read operations for items.
type ItemReader interface {
	// FindItemByID retrieves an item by its identifier.
	FindItemByID(ctx context.Context, itemID string) (*domain.Item, error)

	// FindItemsByIDs retrieves multiple items keyed by ID.
	FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.Item, error)
}

// ItemWriter defines write operations for items.
type ItemWriter interface {
	// SaveItem persists a new item.
	SaveItem(ctx context.Context, item domain.Item) error
}

// WarehouseReader defines read operations for warehouses.
type WarehouseReader interface {
	// FindWarehouseByID retrieves a warehouse by its identifier.
	FindWarehouseByID(ctx context.Context, warehouseID string) (*domain.Warehouse, error)

	// FindWarehousesByIDs retrieves multiple warehouses keyed by ID.
	FindWarehousesByIDs(ctx context.Context, warehouseIDs []string) (map[string]domain.Warehouse, error)
}

// WarehouseWriter defines write operations for warehouses.
type WarehouseWriter interface {
	// SaveWarehouse persists a new warehouse.
	SaveWarehouse(ctx context.Context, warehouse domain.Warehouse) error
}

// StockReader defines read operations for stock levels.
type StockReader interface {
	// GetStock retrieves the quantity on hand for one (item, warehouse).
	// A bucket that has never moved reads as zero.
	GetStock(ctx context.Context, itemID, warehouseID string) (decimal.Decimal, error)
}

// StockTxOperator defines stock mutations inside an open posting transaction.
type StockTxOperator interface {
	// UpsertStockDeltasInTx applies signed quantity deltas per
	// (item, warehouse) within tx, creating buckets as needed.
	UpsertStockDeltasInTx(ctx context.Context, tx pgx.Tx, stockChanges map[domain.StockKey]decimal.Decimal, updatedAt time.Time) error
}

// InventoryRepositoryFacade combines all inventory repository interfaces.
type InventoryRepositoryFacade interface {
	ItemReader
	ItemWriter
	WarehouseReader
	WarehouseWriter
	StockReader
	StockTxOperator
}
