package mapping

import (
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
)

// ToModelFiscalConfig converts a domain FiscalConfig to a model FiscalConfig
func ToModelFiscalConfig(d domain.FiscalConfig) models.FiscalConfig {
	return models.FiscalConfig{
		CompanyID:          d.CompanyID,
		FinancialYearStart: d.FinancialYearStart,
		BooksStart:         d.BooksStart,
		AllowBackdated:     d.AllowBackdated,
		BackdatedFrom:      d.BackdatedFrom,
		EditLogEnabled:     d.EditLogEnabled,
		HomeState:          d.HomeState,
		CurrencyPrecision:  d.CurrencyPrecision,
		OutputCGSTLedger:   d.TaxLedgers.OutputCGST,
		OutputSGSTLedger:   d.TaxLedgers.OutputSGST,
		OutputIGSTLedger:   d.TaxLedgers.OutputIGST,
		InputCGSTLedger:    d.TaxLedgers.InputCGST,
		InputSGSTLedger:    d.TaxLedgers.InputSGST,
		InputIGSTLedger:    d.TaxLedgers.InputIGST,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalConfig converts a model FiscalConfig to a domain FiscalConfig
func ToDomainFiscalConfig(m models.FiscalConfig) domain.FiscalConfig {
	return domain.FiscalConfig{
		CompanyID:          m.CompanyID,
		FinancialYearStart: m.FinancialYearStart,
		BooksStart:         m.BooksStart,
		AllowBackdated:     m.AllowBackdated,
		BackdatedFrom:      m.BackdatedFrom,
		EditLogEnabled:     m.EditLogEnabled,
		HomeState:          m.HomeState,
		CurrencyPrecision:  m.CurrencyPrecision,
		TaxLedgers: domain.TaxLedgers{
			OutputCGST: m.OutputCGSTLedger,
			OutputSGST: m.OutputSGSTLedger,
			OutputIGST: m.OutputIGSTLedger,
			InputCGST:  m.InputCGSTLedger,
			InputSGST:  m.InputSGSTLedger,
			InputIGST:  m.InputIGSTLedger,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
