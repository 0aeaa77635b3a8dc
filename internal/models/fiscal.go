package models

import "time"

// FiscalConfig represents a row in the fiscal_configs table, one per company.
type FiscalConfig struct {
	CompanyID          string     `json:"companyID"` // Primary Key
	FinancialYearStart time.Time  `json:"financialYearStart"`
	BooksStart         time.Time  `json:"booksStart"`
	AllowBackdated     bool       `json:"allowBackdated"`
	BackdatedFrom      *time.Time `json:"backdatedFrom"`
	EditLogEnabled     bool       `json:"editLogEnabled"`
	HomeState          string     `json:"homeState"`
	CurrencyPrecision  int32      `json:"currencyPrecision"`
	OutputCGSTLedger   string     `json:"outputCGSTLedger"`
	OutputSGSTLedger   string     `json:"outputSGSTLedger"`
	OutputIGSTLedger   string     `json:"outputIGSTLedger"`
	InputCGSTLedger    string     `json:"inputCGSTLedger"`
	InputSGSTLedger    string     `json:"inputSGSTLedger"`
	InputIGSTLedger    string     `json:"inputIGSTLedger"`
	AuditFields
}
