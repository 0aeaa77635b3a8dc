package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

var (
	ErrBooksBeforeFYStart  = errors.New("books start must not precede the financial year start")
	ErrBackdatedFromRange  = errors.New("backdated-from must lie within the financial year start and books start")
	ErrBackdatedFromNeeded = errors.New("backdated-from is required when backdated entries are allowed")
)

// fiscalService owns the per-company fiscal configuration and the
// date-postability check.
type fiscalService struct {
	fiscalRepo portsrepo.FiscalRepositoryFacade
	ledgerRepo portsrepo.LedgerReader
}

// NewFiscalService creates a new FiscalService.
func NewFiscalService(fiscalRepo portsrepo.FiscalRepositoryFacade, ledgerRepo portsrepo.LedgerReader) portssvc.FiscalSvcFacade {
	return &fiscalService{
		fiscalRepo: fiscalRepo,
		ledgerRepo: ledgerRepo,
	}
}

var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

// GetFiscalConfig retrieves the company fiscal configuration.
func (s *fiscalService) GetFiscalConfig(ctx context.Context, companyID string) (*domain.FiscalConfig, error) {
	cfg, err := s.fiscalRepo.GetFiscalConfig(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fiscal config for company %s: %w", companyID, err)
	}
	return cfg, nil
}

// SaveFiscalConfig validates and replaces the fiscal configuration.
// backdated_from is range-checked HERE so the posting path never has to
// re-validate its own policy inputs.
func (s *fiscalService) SaveFiscalConfig(ctx context.Context, companyID string, req dto.SaveFiscalConfigRequest, userID string) (*domain.FiscalConfig, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.BooksStart.Before(req.FinancialYearStart) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrBooksBeforeFYStart)
	}
	if req.AllowBackdated {
		if req.BackdatedFrom == nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrBackdatedFromNeeded)
		}
		if req.BackdatedFrom.Before(req.FinancialYearStart) || req.BackdatedFrom.After(req.BooksStart) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrBackdatedFromRange)
		}
	}

	precision := req.CurrencyPrecision
	if precision <= 0 {
		precision = 2
	}

	taxLedgerIDs := []string{
		req.TaxLedgers.OutputCGST, req.TaxLedgers.OutputSGST, req.TaxLedgers.OutputIGST,
		req.TaxLedgers.InputCGST, req.TaxLedgers.InputSGST, req.TaxLedgers.InputIGST,
	}
	ledgers, err := s.ledgerRepo.FindLedgersByIDs(ctx, taxLedgerIDs)
	if err != nil {
		logger.Error("Failed to fetch tax ledgers for fiscal config", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch tax ledgers: %w", err)
	}
	for _, id := range taxLedgerIDs {
		l, found := ledgers[id]
		if !found {
			return nil, fmt.Errorf("%w: tax ledger %s not found", apperrors.ErrValidation, id)
		}
		if l.CompanyID != companyID {
			return nil, fmt.Errorf("%w: tax ledger %s does not belong to company %s", apperrors.ErrValidation, id, companyID)
		}
		if !l.IsActive {
			return nil, fmt.Errorf("%w: tax ledger %s is inactive", apperrors.ErrValidation, id)
		}
	}

	now := time.Now().UTC()
	cfg := domain.FiscalConfig{
		CompanyID:          companyID,
		FinancialYearStart: req.FinancialYearStart,
		BooksStart:         req.BooksStart,
		AllowBackdated:     req.AllowBackdated,
		BackdatedFrom:      req.BackdatedFrom,
		EditLogEnabled:     req.EditLogEnabled,
		HomeState:          req.HomeState,
		CurrencyPrecision:  precision,
		TaxLedgers: domain.TaxLedgers{
			OutputCGST: req.TaxLedgers.OutputCGST,
			OutputSGST: req.TaxLedgers.OutputSGST,
			OutputIGST: req.TaxLedgers.OutputIGST,
			InputCGST:  req.TaxLedgers.InputCGST,
			InputSGST:  req.TaxLedgers.InputSGST,
			InputIGST:  req.TaxLedgers.InputIGST,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.fiscalRepo.SaveFiscalConfig(ctx, cfg); err != nil {
		logger.Error("Failed to save fiscal config", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save fiscal config: %w", err)
	}

	logger.Info("Fiscal config saved", slog.String("company_id", companyID))
	return &cfg, nil
}

// IsPostable checks a voucher date against the company's fiscal window.
func (s *fiscalService) IsPostable(ctx context.Context, companyID string, date time.Time) error {
	cfg, err := s.fiscalRepo.GetFiscalConfig(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to load fiscal config for company %s: %w", companyID, err)
	}
	return cfg.IsPostable(date)
}
