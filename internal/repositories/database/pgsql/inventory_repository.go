package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
	"github.com/vyaparbooks/voucher_engine_app/internal/utils/mapping"
)

const itemColumns = `item_id, company_id, name, unit, gst_rate_percent, is_active, created_at, created_by, last_updated_at, last_updated_by`
const warehouseColumns = `warehouse_id, company_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for items, warehouses
// and stock levels.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

// SaveItem persists a new item.
func (r *PgxInventoryRepository) SaveItem(ctx context.Context, item domain.Item) error {
	m := mapping.ToModelItem(item)
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID, m.CompanyID, m.Name, m.Unit, m.GSTRatePercent, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item %s: %w", m.ItemID, mapPgError(err))
	}
	return nil
}

// FindItemByID retrieves an item by its identifier.
func (r *PgxInventoryRepository) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_id = $1;`

	var m models.Item
	err := r.Pool.QueryRow(ctx, query, itemID).Scan(
		&m.ItemID, &m.CompanyID, &m.Name, &m.Unit, &m.GSTRatePercent, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item %s: %w", itemID, err)
	}
	d := mapping.ToDomainItem(m)
	return &d, nil
}

// FindItemsByIDs retrieves multiple items keyed by ID.
func (r *PgxInventoryRepository) FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.Item, error) {
	if len(itemIDs) == 0 {
		return map[string]domain.Item{}, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query items by IDs: %w", err)
	}
	defer rows.Close()

	items := make(map[string]domain.Item)
	for rows.Next() {
		var m models.Item
		if err := rows.Scan(
			&m.ItemID, &m.CompanyID, &m.Name, &m.Unit, &m.GSTRatePercent, &m.IsActive,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items[m.ItemID] = mapping.ToDomainItem(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

// SaveWarehouse persists a new warehouse.
func (r *PgxInventoryRepository) SaveWarehouse(ctx context.Context, warehouse domain.Warehouse) error {
	m := mapping.ToModelWarehouse(warehouse)
	query := `
		INSERT INTO warehouses (` + warehouseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.WarehouseID, m.CompanyID, m.Name, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert warehouse %s: %w", m.WarehouseID, mapPgError(err))
	}
	return nil
}

// FindWarehouseByID retrieves a warehouse by its identifier.
func (r *PgxInventoryRepository) FindWarehouseByID(ctx context.Context, warehouseID string) (*domain.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE warehouse_id = $1;`

	var m models.Warehouse
	err := r.Pool.QueryRow(ctx, query, warehouseID).Scan(
		&m.WarehouseID, &m.CompanyID, &m.Name, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find warehouse %s: %w", warehouseID, err)
	}
	d := mapping.ToDomainWarehouse(m)
	return &d, nil
}

// FindWarehousesByIDs retrieves multiple warehouses keyed by ID.
func (r *PgxInventoryRepository) FindWarehousesByIDs(ctx context.Context, warehouseIDs []string) (map[string]domain.Warehouse, error) {
	if len(warehouseIDs) == 0 {
		return map[string]domain.Warehouse{}, nil
	}
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE warehouse_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, warehouseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses by IDs: %w", err)
	}
	defer rows.Close()

	warehouses := make(map[string]domain.Warehouse)
	for rows.Next() {
		var m models.Warehouse
		if err := rows.Scan(
			&m.WarehouseID, &m.CompanyID, &m.Name, &m.IsActive,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse row: %w", err)
		}
		warehouses[m.WarehouseID] = mapping.ToDomainWarehouse(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warehouse rows: %w", err)
	}
	return warehouses, nil
}

// GetStock retrieves the quantity on hand for one (item, warehouse). A
// bucket that has never moved reads as zero.
func (r *PgxInventoryRepository) GetStock(ctx context.Context, itemID, warehouseID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := r.Pool.QueryRow(ctx,
		`SELECT quantity FROM stock_levels WHERE item_id = $1 AND warehouse_id = $2;`,
		itemID, warehouseID,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read stock for item %s warehouse %s: %w", itemID, warehouseID, err)
	}
	return qty, nil
}

// UpsertStockDeltasInTx applies signed quantity deltas per (item, warehouse)
// within tx, creating buckets as needed. Buckets are processed in key order
// so concurrent posts touch rows in the same sequence.
func (r *PgxInventoryRepository) UpsertStockDeltasInTx(ctx context.Context, tx pgx.Tx, stockChanges map[domain.StockKey]decimal.Decimal, updatedAt time.Time) error {
	keys := make([]domain.StockKey, 0, len(stockChanges))
	for k := range stockChanges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ItemID != keys[j].ItemID {
			return keys[i].ItemID < keys[j].ItemID
		}
		return keys[i].WarehouseID < keys[j].WarehouseID
	})

	query := `
		INSERT INTO stock_levels (item_id, warehouse_id, quantity, last_updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, last_updated_at = EXCLUDED.last_updated_at;
	`
	batch := &pgx.Batch{}
	for _, k := range keys {
		batch.Queue(query, k.ItemID, k.WarehouseID, stockChanges[k], updatedAt)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to apply stock deltas: %w", err)
	}
	return nil
}
