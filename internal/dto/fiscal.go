package dto

import (
	"time"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// TaxLedgersRequest binds the implicit tax entries to ledgers.
type TaxLedgersRequest struct {
	OutputCGST string `json:"outputCGST" binding:"required"`
	OutputSGST string `json:"outputSGST" binding:"required"`
	OutputIGST string `json:"outputIGST" binding:"required"`
	InputCGST  string `json:"inputCGST" binding:"required"`
	InputSGST  string `json:"inputSGST" binding:"required"`
	InputIGST  string `json:"inputIGST" binding:"required"`
}

// SaveFiscalConfigRequest replaces the company fiscal configuration.
type SaveFiscalConfigRequest struct {
	FinancialYearStart time.Time         `json:"financialYearStart" binding:"required"`
	BooksStart         time.Time         `json:"booksStart" binding:"required"`
	AllowBackdated     bool              `json:"allowBackdated"`
	BackdatedFrom      *time.Time        `json:"backdatedFrom"`
	EditLogEnabled     bool              `json:"editLogEnabled"`
	HomeState          string            `json:"homeState" binding:"required"`
	CurrencyPrecision  int32             `json:"currencyPrecision"`
	TaxLedgers         TaxLedgersRequest `json:"taxLedgers" binding:"required"`
}

// FiscalConfigResponse mirrors the fiscal configuration.
type FiscalConfigResponse struct {
	CompanyID          string     `json:"companyID"`
	FinancialYearStart time.Time  `json:"financialYearStart"`
	BooksStart         time.Time  `json:"booksStart"`
	AllowBackdated     bool       `json:"allowBackdated"`
	BackdatedFrom      *time.Time `json:"backdatedFrom,omitempty"`
	EditLogEnabled     bool       `json:"editLogEnabled"`
	HomeState          string     `json:"homeState"`
	CurrencyPrecision  int32      `json:"currencyPrecision"`
	TaxLedgers         domain.TaxLedgers `json:"taxLedgers"`
}

// ToFiscalConfigResponse converts a domain fiscal config.
func ToFiscalConfigResponse(c *domain.FiscalConfig) FiscalConfigResponse {
	return FiscalConfigResponse{
		CompanyID:          c.CompanyID,
		FinancialYearStart: c.FinancialYearStart,
		BooksStart:         c.BooksStart,
		AllowBackdated:     c.AllowBackdated,
		BackdatedFrom:      c.BackdatedFrom,
		EditLogEnabled:     c.EditLogEnabled,
		HomeState:          c.HomeState,
		CurrencyPrecision:  c.CurrencyPrecision,
		TaxLedgers:         c.TaxLedgers,
	}
}
