package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ledgerRepo := newPgxLedgerRepository(dbPool)
	numberingRepo := newPgxNumberingRepository(dbPool)
	inventoryRepo := newPgxInventoryRepository(dbPool)
	fiscalRepo := newPgxFiscalRepository(dbPool)
	voucherRepo := newPgxVoucherRepository(dbPool, ledgerRepo, inventoryRepo)

	return portsrepo.RepositoryProvider{
		LedgerRepo:    ledgerRepo,
		VoucherRepo:   voucherRepo,
		NumberingRepo: numberingRepo,
		InventoryRepo: inventoryRepo,
		FiscalRepo:    fiscalRepo,
	}
}
