package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
)

// LedgerSvcFacade manages the ledger catalog and balance reads.
type LedgerSvcFacade interface {
	// CreateLedger creates a new ledger account.
	CreateLedger(ctx context.Context, companyID string, req dto.CreateLedgerRequest, userID string) (*domain.Ledger, error)

	// GetLedgerByID retrieves a ledger.
	GetLedgerByID(ctx context.Context, companyID, ledgerID string) (*domain.Ledger, error)

	// ListLedgers retrieves ledgers of a company.
	ListLedgers(ctx context.Context, companyID string, limit, offset int) ([]domain.Ledger, error)

	// GetLedgerBalance returns the running balance of a ledger.
	GetLedgerBalance(ctx context.Context, companyID, ledgerID string) (decimal.Decimal, error)

	// DeactivateLedger soft-deletes a ledger. Rejected while the ledger
	// carries a non-zero balance.
	DeactivateLedger(ctx context.Context, companyID, ledgerID, userID string) error
}
