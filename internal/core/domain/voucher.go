package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus indicates the lifecycle state of a voucher.
type VoucherStatus string

const (
	StatusDraft     VoucherStatus = "DRAFT"
	StatusPosted    VoucherStatus = "POSTED"
	StatusCancelled VoucherStatus = "CANCELLED"
)

// EntryType indicates whether a voucher entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// BillReferenceType classifies how a bill reference relates a payment or
// receipt entry to a prior invoice.
type BillReferenceType string

const (
	RefAgainst   BillReferenceType = "AGAINST"
	RefNew       BillReferenceType = "NEW"
	RefAdvance   BillReferenceType = "ADVANCE"
	RefOnAccount BillReferenceType = "ON_ACCOUNT"
)

// Voucher is a single accounting transaction record composed of balanced
// debit/credit entries, optionally carrying inventory lines.
type Voucher struct {
	VoucherID          string          `json:"voucherID"` // Primary Key (UUID)
	CompanyID          string          `json:"companyID"` // Tenant scope
	VoucherTypeID      string          `json:"voucherTypeID"`
	Category           VoucherCategory `json:"category"`
	SeriesID           string          `json:"seriesID"`                // Chosen numbering series; empty for method NONE without a series
	VoucherNumber      string          `json:"voucherNumber"`           // Assigned at posting; never reused
	VoucherDate        time.Time       `json:"voucherDate"`             // Transaction date, gated by the fiscal window
	Reference          string          `json:"reference"`               // Optional external reference
	Narration          string          `json:"narration"`               // Optional free text
	PartyLedgerID      string          `json:"partyLedgerID"`           // Optional customer/supplier ledger
	PlaceOfSupply      string          `json:"placeOfSupply"`           // GST state code attributed to the transaction
	Status             VoucherStatus   `json:"status"`                  // DRAFT, POSTED or CANCELLED
	TotalAmount        decimal.Decimal `json:"totalAmount"`             // Debit-side total of the posted voucher
	OriginalVoucherID  *string         `json:"originalVoucherID"`       // Set on a reversing voucher
	ReversingVoucherID *string         `json:"reversingVoucherID"`      // Set on a cancelled voucher
	Entries            []VoucherEntry  `json:"entries,omitempty"`       // Populated on demand
	InventoryLines     []InventoryLine `json:"inventoryLines,omitempty"`
	AuditFields
}

// VoucherEntry is a single debit or credit line within a voucher.
type VoucherEntry struct {
	EntryID        string          `json:"entryID"` // Primary Key (UUID)
	VoucherID      string          `json:"voucherID"`
	LedgerID       string          `json:"ledgerID"`
	EntryType      EntryType       `json:"entryType"`
	Amount         decimal.Decimal `json:"amount"` // Positive, currency precision
	Narration      string          `json:"narration"`
	CostCenter     string          `json:"costCenter"`
	BillReferences []BillReference `json:"billReferences,omitempty"`
	AuditFields
}

// BillReference ties a payment/receipt entry to a specific prior invoice for
// aging and collections tracking. Informational to the balance invariant but
// required to be internally consistent.
type BillReference struct {
	BillRefID     string            `json:"billRefID"` // Primary Key (UUID)
	EntryID       string            `json:"entryID"`
	Reference     string            `json:"reference"` // Invoice number or free reference
	Amount        decimal.Decimal   `json:"amount"`    // Must not exceed the parent entry amount
	ReferenceType BillReferenceType `json:"referenceType"`
	DueDate       *time.Time        `json:"dueDate"`
	Remarks       string            `json:"remarks"`
}

// InventoryLine is an item movement attached to a voucher. Quantity is
// entered positive; the stock direction comes from the voucher category.
type InventoryLine struct {
	LineID         string          `json:"lineID"` // Primary Key (UUID)
	VoucherID      string          `json:"voucherID"`
	ItemID         string          `json:"itemID"`
	WarehouseID    string          `json:"warehouseID"`
	Quantity       decimal.Decimal `json:"quantity"` // Positive; sign applied by category
	Rate           decimal.Decimal `json:"rate"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	GSTRatePercent decimal.Decimal `json:"gstRatePercent"`
	LineAmount     decimal.Decimal `json:"lineAmount"` // Derived: qty*rate - discount (clamped at zero)
	TaxAmount      decimal.Decimal `json:"taxAmount"`  // Derived by the tax calculator
	CGSTAmount     decimal.Decimal `json:"cgstAmount"`
	SGSTAmount     decimal.Decimal `json:"sgstAmount"`
	IGSTAmount     decimal.Decimal `json:"igstAmount"`
}

// StockKey identifies a stock bucket.
type StockKey struct {
	ItemID      string
	WarehouseID string
}
