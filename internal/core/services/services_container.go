package services

import (
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
)

// NewServiceContainer wires every service facade from the repository
// provider. The voucher service receives the numbering, fiscal and tax
// services so the posting pipeline stays in one place.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	numberingSvc := NewNumberingService(repos.NumberingRepo)
	fiscalSvc := NewFiscalService(repos.FiscalRepo, repos.LedgerRepo)
	taxSvc := NewTaxService()
	ledgerSvc := NewLedgerService(repos.LedgerRepo)
	inventorySvc := NewInventoryService(repos.InventoryRepo)
	voucherSvc := NewVoucherService(repos.VoucherRepo, repos.LedgerRepo, repos.InventoryRepo, numberingSvc, fiscalSvc, taxSvc)

	return &portssvc.ServiceContainer{
		Voucher:   voucherSvc,
		Ledger:    ledgerSvc,
		Inventory: inventorySvc,
		Numbering: numberingSvc,
		Fiscal:    fiscalSvc,
		Tax:       taxSvc,
	}
}
