package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

// ledgerService manages the ledger catalog. Balances are mutated only by
// the posting engine; this service reads them.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateLedger creates a new ledger account with a zero opening balance.
func (s *ledgerService) CreateLedger(ctx context.Context, companyID string, req dto.CreateLedgerRequest, userID string) (*domain.Ledger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	ledger := domain.Ledger{
		LedgerID:    uuid.NewString(),
		CompanyID:   companyID,
		Name:        req.Name,
		Subtype:     domain.LedgerSubtype(req.Subtype),
		BalanceSide: domain.BalanceSide(req.BalanceSide),
		Balance:     decimal.Zero,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.ledgerRepo.SaveLedger(ctx, ledger); err != nil {
		logger.Error("Failed to save ledger", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}

	logger.Info("Ledger created", slog.String("ledger_id", ledger.LedgerID), slog.String("name", ledger.Name))
	return &ledger, nil
}

// GetLedgerByID retrieves a ledger, scoped to the company.
func (s *ledgerService) GetLedgerByID(ctx context.Context, companyID, ledgerID string) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger %s: %w", ledgerID, err)
	}
	if ledger.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return ledger, nil
}

// ListLedgers retrieves ledgers of a company.
func (s *ledgerService) ListLedgers(ctx context.Context, companyID string, limit, offset int) ([]domain.Ledger, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	ledgers, err := s.ledgerRepo.ListLedgers(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	return ledgers, nil
}

// GetLedgerBalance returns the running balance of a ledger.
func (s *ledgerService) GetLedgerBalance(ctx context.Context, companyID, ledgerID string) (decimal.Decimal, error) {
	ledger, err := s.GetLedgerByID(ctx, companyID, ledgerID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.Balance, nil
}

// DeactivateLedger soft-deletes a ledger. A ledger still carrying a balance
// cannot be deactivated.
func (s *ledgerService) DeactivateLedger(ctx context.Context, companyID, ledgerID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	ledger, err := s.GetLedgerByID(ctx, companyID, ledgerID)
	if err != nil {
		return err
	}
	if !ledger.Balance.IsZero() {
		return fmt.Errorf("%w: ledger %s carries balance %s", apperrors.ErrPolicy, ledgerID, ledger.Balance.String())
	}

	if err := s.ledgerRepo.DeactivateLedger(ctx, ledgerID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to deactivate ledger %s: %w", ledgerID, err)
	}
	logger.Info("Ledger deactivated", slog.String("ledger_id", ledgerID))
	return nil
}
