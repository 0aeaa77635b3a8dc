package services

import (
	"context"
	"time"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
)

// FiscalSvcFacade manages the per-company fiscal configuration and answers
// date-postability checks.
type FiscalSvcFacade interface {
	// GetFiscalConfig retrieves the company fiscal configuration.
	GetFiscalConfig(ctx context.Context, companyID string) (*domain.FiscalConfig, error)

	// SaveFiscalConfig validates and replaces the fiscal configuration.
	// The backdated-from date must lie within [financialYearStart,
	// booksStart]; tax ledgers must exist and be active.
	SaveFiscalConfig(ctx context.Context, companyID string, req dto.SaveFiscalConfigRequest, userID string) (*domain.FiscalConfig, error)

	// IsPostable checks a voucher date against the company's fiscal
	// window.
	IsPostable(ctx context.Context, companyID string, date time.Time) error
}
