package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// LedgerReader defines read operations for ledger data.
type LedgerReader interface {
	// FindLedgerByID retrieves a single ledger by its unique identifier.
	FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)

	// FindLedgersByIDs retrieves multiple ledgers keyed by ID.
	FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error)

	// ListLedgers retrieves ledgers for a company with offset pagination.
	ListLedgers(ctx context.Context, companyID string, limit int, offset int) ([]domain.Ledger, error)
}

// LedgerWriter defines write operations for ledger data.
type LedgerWriter interface {
	// SaveLedger persists a new ledger.
	SaveLedger(ctx context.Context, ledger domain.Ledger) error

	// DeactivateLedger soft-deletes a ledger.
	DeactivateLedger(ctx context.Context, ledgerID string, updatedBy string, updatedAt time.Time) error
}

// LedgerTxOperator defines ledger operations that run inside an open
// posting transaction.
type LedgerTxOperator interface {
	// FindLedgersByIDsForUpdate retrieves and row-locks ledgers within tx.
	// Lock acquisition is ordered by ledger ID to avoid deadlocks between
	// concurrent posts.
	FindLedgersByIDsForUpdate(ctx context.Context, tx pgx.Tx, ledgerIDs []string) (map[string]domain.Ledger, error)

	// UpdateLedgerBalancesInTx applies signed balance deltas within tx.
	UpdateLedgerBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
	LedgerTxOperator
}
