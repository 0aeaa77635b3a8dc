package services

// ServiceContainer holds all service facades for dependency injection into
// the HTTP layer.
type ServiceContainer struct {
	Voucher   VoucherSvcFacade
	Ledger    LedgerSvcFacade
	Inventory InventorySvcFacade
	Numbering NumberingSvcFacade
	Fiscal    FiscalSvcFacade
	Tax       TaxSvcFacade
}
