package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// BillReferenceRequest is one bill reference on an entry.
type BillReferenceRequest struct {
	Reference     string          `json:"reference" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ReferenceType string          `json:"referenceType" binding:"required,oneof=AGAINST NEW ADVANCE ON_ACCOUNT"`
	DueDate       *time.Time      `json:"dueDate"`
	Remarks       string          `json:"remarks"`
}

// VoucherEntryRequest is one debit or credit line of a draft voucher.
type VoucherEntryRequest struct {
	LedgerID       string                 `json:"ledgerID" binding:"required"`
	EntryType      string                 `json:"entryType" binding:"required,oneof=DEBIT CREDIT"`
	Amount         decimal.Decimal        `json:"amount" binding:"required"`
	Narration      string                 `json:"narration"`
	CostCenter     string                 `json:"costCenter"`
	BillReferences []BillReferenceRequest `json:"billReferences" binding:"omitempty,dive"`
}

// InventoryLineRequest is one item movement of a draft voucher. Quantity is
// positive; the stock direction comes from the voucher category.
type InventoryLineRequest struct {
	ItemID         string           `json:"itemID" binding:"required"`
	WarehouseID    string           `json:"warehouseID" binding:"required"`
	Quantity       decimal.Decimal  `json:"quantity" binding:"required"`
	Rate           decimal.Decimal  `json:"rate" binding:"required"`
	DiscountAmount decimal.Decimal  `json:"discountAmount"`
	GSTRatePercent *decimal.Decimal `json:"gstRatePercent"` // Defaults to the item's rate when omitted
}

// CreateVoucherRequest is a draft voucher as assembled by a caller.
type CreateVoucherRequest struct {
	VoucherTypeID  string                 `json:"voucherTypeID" binding:"required"`
	SeriesID       string                 `json:"seriesID"`     // Defaults to the voucher type's current series
	ManualNumber   *string                `json:"manualNumber"` // For MANUAL and AUTOMATIC_WITH_OVERRIDE series
	Date           time.Time              `json:"date" binding:"required"`
	Reference      string                 `json:"reference"`
	Narration      string                 `json:"narration"`
	PartyLedgerID  string                 `json:"partyLedgerID"`
	PlaceOfSupply  string                 `json:"placeOfSupply"`
	Entries        []VoucherEntryRequest  `json:"entries" binding:"required,min=1,dive"`
	InventoryLines []InventoryLineRequest `json:"inventoryLines" binding:"omitempty,dive"`
}

// CancelVoucherRequest parameterizes the reversing draft posted to cancel a
// voucher.
type CancelVoucherRequest struct {
	Date      *time.Time `json:"date"` // Defaults to today; still gated by the fiscal window
	Narration string     `json:"narration"`
}

// ListVouchersParams holds listing parameters.
type ListVouchersParams struct {
	VoucherTypeID string  `form:"voucherTypeID"`
	Status        string  `form:"status" binding:"omitempty,oneof=POSTED CANCELLED"`
	Limit         int     `form:"limit"`
	NextToken     *string `form:"nextToken"`
}

// ListEntriesParams holds ledger entry listing parameters.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// BillReferenceResponse mirrors a posted bill reference.
type BillReferenceResponse struct {
	BillRefID     string          `json:"billRefID"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType string          `json:"referenceType"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	Remarks       string          `json:"remarks,omitempty"`
}

// VoucherEntryResponse mirrors a voucher entry, including implicit tax
// entries generated during posting.
type VoucherEntryResponse struct {
	EntryID        string                  `json:"entryID"`
	LedgerID       string                  `json:"ledgerID"`
	EntryType      string                  `json:"entryType"`
	Amount         decimal.Decimal         `json:"amount"`
	Narration      string                  `json:"narration,omitempty"`
	CostCenter     string                  `json:"costCenter,omitempty"`
	BillReferences []BillReferenceResponse `json:"billReferences,omitempty"`
}

// InventoryLineResponse mirrors an inventory line with its derived amounts.
type InventoryLineResponse struct {
	LineID         string          `json:"lineID"`
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

// VoucherResponse is the full representation of a voucher returned to
// callers.
type VoucherResponse struct {
	VoucherID          string                  `json:"voucherID"`
	VoucherTypeID      string                  `json:"voucherTypeID"`
	Category           string                  `json:"category"`
	SeriesID           string                  `json:"seriesID,omitempty"`
	VoucherNumber      string                  `json:"voucherNumber,omitempty"`
	Date               time.Time               `json:"date"`
	Reference          string                  `json:"reference,omitempty"`
	Narration          string                  `json:"narration,omitempty"`
	PartyLedgerID      string                  `json:"partyLedgerID,omitempty"`
	PlaceOfSupply      string                  `json:"placeOfSupply,omitempty"`
	Status             string                  `json:"status"`
	TotalAmount        decimal.Decimal         `json:"totalAmount"`
	OriginalVoucherID  *string                 `json:"originalVoucherID,omitempty"`
	ReversingVoucherID *string                 `json:"reversingVoucherID,omitempty"`
	Entries            []VoucherEntryResponse  `json:"entries,omitempty"`
	InventoryLines     []InventoryLineResponse `json:"inventoryLines,omitempty"`
	CreatedAt          time.Time               `json:"createdAt"`
	CreatedBy          string                  `json:"createdBy"`
}

// ListVouchersResponse is a page of vouchers.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListEntriesResponse is a page of ledger entries.
type ListEntriesResponse struct {
	Entries   []VoucherEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToBillReferenceResponse converts a domain bill reference.
func ToBillReferenceResponse(r *domain.BillReference) BillReferenceResponse {
	return BillReferenceResponse{
		BillRefID:     r.BillRefID,
		Reference:     r.Reference,
		Amount:        r.Amount,
		ReferenceType: string(r.ReferenceType),
		DueDate:       r.DueDate,
		Remarks:       r.Remarks,
	}
}

// ToVoucherEntryResponse converts a domain entry.
func ToVoucherEntryResponse(e *domain.VoucherEntry) VoucherEntryResponse {
	resp := VoucherEntryResponse{
		EntryID:    e.EntryID,
		LedgerID:   e.LedgerID,
		EntryType:  string(e.EntryType),
		Amount:     e.Amount,
		Narration:  e.Narration,
		CostCenter: e.CostCenter,
	}
	for i := range e.BillReferences {
		resp.BillReferences = append(resp.BillReferences, ToBillReferenceResponse(&e.BillReferences[i]))
	}
	return resp
}

// ToInventoryLineResponse converts a domain inventory line.
func ToInventoryLineResponse(l *domain.InventoryLine) InventoryLineResponse {
	return InventoryLineResponse{
		LineID:         l.LineID,
		ItemID:         l.ItemID,
		WarehouseID:    l.WarehouseID,
		Quantity:       l.Quantity,
		Rate:           l.Rate,
		DiscountAmount: l.DiscountAmount,
		GSTRatePercent: l.GSTRatePercent,
		LineAmount:     l.LineAmount,
		TaxAmount:      l.TaxAmount,
		CGSTAmount:     l.CGSTAmount,
		SGSTAmount:     l.SGSTAmount,
		IGSTAmount:     l.IGSTAmount,
	}
}

// ToVoucherResponse converts a domain voucher with whatever entries and
// lines it carries.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	resp := VoucherResponse{
		VoucherID:          v.VoucherID,
		VoucherTypeID:      v.VoucherTypeID,
		Category:           string(v.Category),
		SeriesID:           v.SeriesID,
		VoucherNumber:      v.VoucherNumber,
		Date:               v.VoucherDate,
		Reference:          v.Reference,
		Narration:          v.Narration,
		PartyLedgerID:      v.PartyLedgerID,
		PlaceOfSupply:      v.PlaceOfSupply,
		Status:             string(v.Status),
		TotalAmount:        v.TotalAmount,
		OriginalVoucherID:  v.OriginalVoucherID,
		ReversingVoucherID: v.ReversingVoucherID,
		CreatedAt:          v.CreatedAt,
		CreatedBy:          v.CreatedBy,
	}
	for i := range v.Entries {
		resp.Entries = append(resp.Entries, ToVoucherEntryResponse(&v.Entries[i]))
	}
	for i := range v.InventoryLines {
		resp.InventoryLines = append(resp.InventoryLines, ToInventoryLineResponse(&v.InventoryLines[i]))
	}
	return resp
}
