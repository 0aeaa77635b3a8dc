package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// CalculateSignedDelta applies the correct sign to an entry amount based on
// the ledger's natural balance side. Used in both services and repositories
// so balance arithmetic stays consistent.
//
// DEBIT to a debit-natural ledger -> positive
// CREDIT to a debit-natural ledger -> negative
// DEBIT to a credit-natural ledger -> negative
// CREDIT to a credit-natural ledger -> positive
func CalculateSignedDelta(entry domain.VoucherEntry, side domain.BalanceSide) (decimal.Decimal, error) {
	signed := entry.Amount
	isDebit := entry.EntryType == domain.Debit

	switch side {
	case domain.DebitNatural:
		if !isDebit {
			signed = signed.Neg()
		}
	case domain.CreditNatural:
		if isDebit {
			signed = signed.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown balance side %q for ledger %s", side, entry.LedgerID)
	}
	return signed, nil
}

// SumEntrySides totals the debit and credit sides of an entry list.
func SumEntrySides(entries []domain.VoucherEntry) (debitTotal, creditTotal decimal.Decimal) {
	debitTotal = decimal.Zero
	creditTotal = decimal.Zero
	for _, e := range entries {
		if e.EntryType == domain.Debit {
			debitTotal = debitTotal.Add(e.Amount)
		} else {
			creditTotal = creditTotal.Add(e.Amount)
		}
	}
	return debitTotal, creditTotal
}
