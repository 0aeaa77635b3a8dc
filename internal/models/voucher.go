package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher represents a row in the vouchers table.
type Voucher struct {
	VoucherID          string          `json:"voucherID"` // Primary Key (UUID)
	CompanyID          string          `json:"companyID"`
	VoucherTypeID      string          `json:"voucherTypeID"`
	Category           string          `json:"category"` // Denormalized from the voucher type
	SeriesID           *string         `json:"seriesID"` // Nullable for method NONE
	VoucherNumber      *string         `json:"voucherNumber"`
	VoucherDate        time.Time       `json:"voucherDate"`
	Reference          string          `json:"reference"`
	Narration          string          `json:"narration"`
	PartyLedgerID      *string         `json:"partyLedgerID"`
	PlaceOfSupply      string          `json:"placeOfSupply"`
	Status             string          `json:"status"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	OriginalVoucherID  *string         `json:"originalVoucherID"`
	ReversingVoucherID *string         `json:"reversingVoucherID"`
	AuditFields
}

// VoucherEntry represents a row in the voucher_entries table.
type VoucherEntry struct {
	EntryID    string          `json:"entryID"` // Primary Key (UUID)
	VoucherID  string          `json:"voucherID"`
	LedgerID   string          `json:"ledgerID"`
	EntryType  string          `json:"entryType"`
	Amount     decimal.Decimal `json:"amount"`
	Narration  string          `json:"narration"`
	CostCenter string          `json:"costCenter"`
	AuditFields
}

// BillReference represents a row in the bill_references table.
type BillReference struct {
	BillRefID     string          `json:"billRefID"` // Primary Key (UUID)
	EntryID       string          `json:"entryID"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType string          `json:"referenceType"`
	DueDate       *time.Time      `json:"dueDate"`
	Remarks       string          `json:"remarks"`
}

// InventoryLine represents a row in the inventory_lines table.
type InventoryLine struct {
	LineID         string          `json:"lineID"` // Primary Key (UUID)
	VoucherID      string          `json:"voucherID"`
	ItemID         string          `json:"itemID"`
	WarehouseID    string          `json:"warehouseID"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	GSTRatePercent decimal.Decimal `json:"gstRatePercent"`
	LineAmount     decimal.Decimal `json:"lineAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	CGSTAmount     decimal.Decimal `json:"cgstAmount"`
	SGSTAmount     decimal.Decimal `json:"sgstAmount"`
	IGSTAmount     decimal.Decimal `json:"igstAmount"`
}
