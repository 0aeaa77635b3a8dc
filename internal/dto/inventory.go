package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// CreateItemRequest creates a stockable item.
type CreateItemRequest struct {
	Name           string          `json:"name" binding:"required"`
	Unit           string          `json:"unit" binding:"required"`
	GSTRatePercent decimal.Decimal `json:"gstRatePercent"`
}

// CreateWarehouseRequest creates a stock location.
type CreateWarehouseRequest struct {
	Name string `json:"name" binding:"required"`
}

// ItemResponse mirrors an item.
type ItemResponse struct {
	ItemID         string          `json:"itemID"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	GSTRatePercent decimal.Decimal `json:"gstRatePercent"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// WarehouseResponse mirrors a warehouse.
type WarehouseResponse struct {
	WarehouseID string    `json:"warehouseID"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// StockResponse is the quantity on hand of one (item, warehouse).
type StockResponse struct {
	ItemID      string          `json:"itemID"`
	WarehouseID string          `json:"warehouseID"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ToItemResponse converts a domain item.
func ToItemResponse(i *domain.Item) ItemResponse {
	return ItemResponse{
		ItemID:         i.ItemID,
		Name:           i.Name,
		Unit:           i.Unit,
		GSTRatePercent: i.GSTRatePercent,
		IsActive:       i.IsActive,
		CreatedAt:      i.CreatedAt,
	}
}

// ToWarehouseResponse converts a domain warehouse.
func ToWarehouseResponse(w *domain.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		WarehouseID: w.WarehouseID,
		Name:        w.Name,
		IsActive:    w.IsActive,
		CreatedAt:   w.CreatedAt,
	}
}
