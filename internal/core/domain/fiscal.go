package domain

import (
	"time"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
)

// TaxLedgers binds the implicit tax entries to concrete ledgers per role
// and component.
type TaxLedgers struct {
	OutputCGST string `json:"outputCGST"`
	OutputSGST string `json:"outputSGST"`
	OutputIGST string `json:"outputIGST"`
	InputCGST  string `json:"inputCGST"`
	InputSGST  string `json:"inputSGST"`
	InputIGST  string `json:"inputIGST"`
}

// ForRole returns the (cgst, sgst, igst) ledger IDs for a tax role.
func (t TaxLedgers) ForRole(role TaxRole) (string, string, string) {
	if role == TaxRoleInput {
		return t.InputCGST, t.InputSGST, t.InputIGST
	}
	return t.OutputCGST, t.OutputSGST, t.OutputIGST
}

// FiscalConfig is the per-company posting policy: fiscal window, backdating
// rules, tax context and currency precision. Updated via explicit
// configuration calls, consumed read-only on every voucher-date check.
type FiscalConfig struct {
	CompanyID          string     `json:"companyID"`
	FinancialYearStart time.Time  `json:"financialYearStart"`
	BooksStart         time.Time  `json:"booksStart"`
	AllowBackdated     bool       `json:"allowBackdated"`
	BackdatedFrom      *time.Time `json:"backdatedFrom"` // Must lie within [financialYearStart, booksStart]
	EditLogEnabled     bool       `json:"editLogEnabled"`
	HomeState          string     `json:"homeState"`         // GST state code of the company
	CurrencyPrecision  int32      `json:"currencyPrecision"` // Decimal places of the base currency
	TaxLedgers         TaxLedgers `json:"taxLedgers"`
	AuditFields
}

// IsPostable reports whether a voucher may be posted on the given date.
// Rules are evaluated in order: anything before the financial year start is
// rejected outright; anything on or after the books start is accepted;
// dates in between are accepted only under the backdating policy.
// BackdatedFrom is validated at configuration time, never here.
func (c FiscalConfig) IsPostable(date time.Time) error {
	d := dateOnly(date)
	if d.Before(dateOnly(c.FinancialYearStart)) {
		return apperrors.ErrBeforeFinancialYear
	}
	if !d.Before(dateOnly(c.BooksStart)) {
		return nil
	}
	if c.AllowBackdated && c.BackdatedFrom != nil && !d.Before(dateOnly(*c.BackdatedFrom)) {
		return nil
	}
	return apperrors.ErrBackdatingNotAllowed
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
