package mapping

import (
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
)

// ToModelLedger converts a domain Ledger to a model Ledger
func ToModelLedger(d domain.Ledger) models.Ledger {
	return models.Ledger{
		LedgerID:    d.LedgerID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Subtype:     string(d.Subtype),
		BalanceSide: string(d.BalanceSide),
		Balance:     d.Balance,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedger converts a model Ledger to a domain Ledger
func ToDomainLedger(m models.Ledger) domain.Ledger {
	return domain.Ledger{
		LedgerID:    m.LedgerID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Subtype:     domain.LedgerSubtype(m.Subtype),
		BalanceSide: domain.BalanceSide(m.BalanceSide),
		Balance:     m.Balance,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
