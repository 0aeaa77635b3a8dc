package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a row in the items table.
type Item struct {
	ItemID         string          `json:"itemID"` // Primary Key (UUID)
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	GSTRatePercent decimal.Decimal `json:"gstRatePercent"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// Warehouse represents a row in the warehouses table.
type Warehouse struct {
	WarehouseID string `json:"warehouseID"` // Primary Key (UUID)
	CompanyID   string `json:"companyID"`
	Name        string `json:"name"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// StockLevel represents a row in the stock_levels table, keyed by
// (item_id, warehouse_id).
type StockLevel struct {
	ItemID        string          `json:"itemID"`
	WarehouseID   string          `json:"warehouseID"`
	Quantity      decimal.Decimal `json:"quantity"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}
