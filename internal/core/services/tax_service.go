package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/utils/gst"
)

// taxService computes GST for inventory lines and turns the voucher's
// total tax into implicit ledger entries. Stateless and side-effect free.
type taxService struct{}

// NewTaxService creates a new TaxService.
func NewTaxService() portssvc.TaxSvcFacade {
	return &taxService{}
}

var _ portssvc.TaxSvcFacade = (*taxService)(nil)

// EnrichLines fills the derived amounts of each inventory line.
func (s *taxService) EnrichLines(cfg domain.FiscalConfig, placeOfSupply string, lines []domain.InventoryLine) []domain.InventoryLine {
	enriched := make([]domain.InventoryLine, len(lines))
	for i, line := range lines {
		bd := gst.ComputeLine(line.Quantity, line.Rate, line.DiscountAmount, line.GSTRatePercent, cfg.HomeState, placeOfSupply, cfg.CurrencyPrecision)
		line.LineAmount = bd.TaxableAmount
		line.TaxAmount = bd.TaxAmount
		line.CGSTAmount = bd.CGST
		line.SGSTAmount = bd.SGST
		line.IGSTAmount = bd.IGST
		enriched[i] = line
	}
	return enriched
}

// BuildTaxEntries sums the line taxes per component and materializes them
// as voucher entries against the configured tax ledgers. The entry side
// and the input/output role come from the category sign table, so a sales
// return debits back the output tax that the sale credited, and a purchase
// return credits back the input tax credit.
func (s *taxService) BuildTaxEntries(cfg domain.FiscalConfig, category domain.VoucherCategory, voucherID string, lines []domain.InventoryLine, userID string, now time.Time) ([]domain.VoucherEntry, error) {
	profile, ok := category.Profile()
	if !ok {
		return nil, fmt.Errorf("unknown voucher category %q", category)
	}
	if profile.TaxRole == domain.TaxRoleNone || len(lines) == 0 {
		return nil, nil
	}

	cgstTotal := decimal.Zero
	sgstTotal := decimal.Zero
	igstTotal := decimal.Zero
	for _, line := range lines {
		cgstTotal = cgstTotal.Add(line.CGSTAmount)
		sgstTotal = sgstTotal.Add(line.SGSTAmount)
		igstTotal = igstTotal.Add(line.IGSTAmount)
	}

	cgstLedger, sgstLedger, igstLedger := cfg.TaxLedgers.ForRole(profile.TaxRole)

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	var entries []domain.VoucherEntry
	appendEntry := func(ledgerID string, amount decimal.Decimal, narration string) {
		if amount.IsZero() {
			return
		}
		entries = append(entries, domain.VoucherEntry{
			EntryID:     uuid.NewString(),
			VoucherID:   voucherID,
			LedgerID:    ledgerID,
			EntryType:   profile.TaxEntrySide,
			Amount:      amount,
			Narration:   narration,
			AuditFields: audit,
		})
	}

	appendEntry(cgstLedger, cgstTotal, "CGST")
	appendEntry(sgstLedger, sgstTotal, "SGST")
	appendEntry(igstLedger, igstTotal, "IGST")

	return entries, nil
}
