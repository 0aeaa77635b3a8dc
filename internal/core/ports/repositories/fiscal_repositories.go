package repositories

import (
	"context"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// FiscalConfigReader defines read access to the per-company fiscal config.
type FiscalConfigReader interface {
	// GetFiscalConfig retrieves the fiscal configuration of a company.
	GetFiscalConfig(ctx context.Context, companyID string) (*domain.FiscalConfig, error)
}

// FiscalConfigWriter defines write access to the per-company fiscal config.
type FiscalConfigWriter interface {
	// SaveFiscalConfig inserts or replaces the fiscal configuration.
	SaveFiscalConfig(ctx context.Context, cfg domain.FiscalConfig) error
}

// FiscalRepositoryFacade combines the fiscal config interfaces.
type FiscalRepositoryFacade interface {
	FiscalConfigReader
	FiscalConfigWriter
}
