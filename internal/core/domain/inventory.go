package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a stockable good referenced by inventory lines.
type Item struct {
	ItemID         string          `json:"itemID"` // Primary Key (UUID)
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`           // e.g. "PCS", "KG"
	GSTRatePercent decimal.Decimal `json:"gstRatePercent"` // Default GST rate for the item
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// Warehouse is a stock location.
type Warehouse struct {
	WarehouseID string `json:"warehouseID"` // Primary Key (UUID)
	CompanyID   string `json:"companyID"`
	Name        string `json:"name"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// StockLevel is the quantity on hand per (item, warehouse), updated only by
// posted vouchers carrying inventory lines.
type StockLevel struct {
	ItemID        string          `json:"itemID"`
	WarehouseID   string          `json:"warehouseID"`
	Quantity      decimal.Decimal `json:"quantity"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}
