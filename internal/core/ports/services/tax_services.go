package services

import (
	"time"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// TaxSvcFacade computes GST for inventory lines and materializes the
// voucher's total tax as implicit ledger entries. Pure: no I/O.
type TaxSvcFacade interface {
	// EnrichLines fills each line's derived amounts (line amount, tax
	// amount, CGST/SGST/IGST) from the company's home state, the
	// voucher's place of supply and the currency precision.
	EnrichLines(cfg domain.FiscalConfig, placeOfSupply string, lines []domain.InventoryLine) []domain.InventoryLine

	// BuildTaxEntries converts the summed line taxes into implicit
	// voucher entries against the configured tax ledgers, on the side
	// dictated by the voucher category's sign table. Categories without
	// tax semantics yield no entries.
	BuildTaxEntries(cfg domain.FiscalConfig, category domain.VoucherCategory, voucherID string, lines []domain.InventoryLine, userID string, now time.Time) ([]domain.VoucherEntry, error)
}
