package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// AllocateFunc reserves a voucher number inside the posting transaction.
// It is supplied by the numbering allocator so that the reservation commits
// or rolls back together with the voucher's side effects. It returns the
// assigned number, which is empty for series with method NONE.
type AllocateFunc func(ctx context.Context, tx pgx.Tx) (string, error)

// ListVouchersFilter narrows a voucher listing.
type ListVouchersFilter struct {
	VoucherTypeID string
	Status        domain.VoucherStatus
}

// VoucherReader defines read operations for posted vouchers.
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher with its entries, bill
	// references and inventory lines.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchers retrieves a page of vouchers for a company using
	// token-based pagination, newest first.
	ListVouchers(ctx context.Context, companyID string, filter ListVouchersFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error)

	// ListEntriesByLedgerID retrieves a page of posted entries hitting a
	// ledger, for statement-style listings.
	ListEntriesByLedgerID(ctx context.Context, companyID, ledgerID string, limit int, nextToken *string) ([]domain.VoucherEntry, *string, error)
}

// VoucherWriter defines the atomic posting commit and reversal linking.
type VoucherWriter interface {
	// SaveVoucher commits a posted voucher in one database transaction:
	// the number allocation (via allocate), the voucher row with its
	// entries, bill references and inventory lines, the ledger balance
	// deltas and the stock deltas. Either everything commits or nothing
	// is visible. Returns the assigned voucher number.
	SaveVoucher(
		ctx context.Context,
		voucher domain.Voucher,
		entries []domain.VoucherEntry,
		lines []domain.InventoryLine,
		balanceChanges map[string]decimal.Decimal,
		stockChanges map[domain.StockKey]decimal.Decimal,
		allocate AllocateFunc,
	) (string, error)

	// SaveReversal commits a reversing voucher and marks the original
	// CANCELLED in the same transaction. The original's flip is guarded:
	// if it is no longer POSTED or already carries a reversal link, the
	// whole transaction rolls back and no reversal is visible.
	SaveReversal(
		ctx context.Context,
		originalVoucherID string,
		voucher domain.Voucher,
		entries []domain.VoucherEntry,
		lines []domain.InventoryLine,
		balanceChanges map[string]decimal.Decimal,
		stockChanges map[domain.StockKey]decimal.Decimal,
		allocate AllocateFunc,
	) (string, error)
}

// VoucherRepositoryFacade combines all voucher repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
