package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
	"github.com/vyaparbooks/voucher_engine_app/internal/utils/mapping"
)

const fiscalColumns = `company_id, financial_year_start, books_start, allow_backdated, backdated_from, edit_log_enabled, home_state, currency_precision, output_cgst_ledger, output_sgst_ledger, output_igst_ledger, input_cgst_ledger, input_sgst_ledger, input_igst_ledger, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalRepository struct {
	BaseRepository
}

// newPgxFiscalRepository creates a new repository for the per-company fiscal
// configuration.
func newPgxFiscalRepository(pool *pgxpool.Pool) portsrepo.FiscalRepositoryFacade {
	return &PgxFiscalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalRepositoryFacade = (*PgxFiscalRepository)(nil)

// GetFiscalConfig retrieves the fiscal configuration of a company.
func (r *PgxFiscalRepository) GetFiscalConfig(ctx context.Context, companyID string) (*domain.FiscalConfig, error) {
	query := `SELECT ` + fiscalColumns + ` FROM fiscal_configs WHERE company_id = $1;`

	var m models.FiscalConfig
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID, &m.FinancialYearStart, &m.BooksStart, &m.AllowBackdated, &m.BackdatedFrom,
		&m.EditLogEnabled, &m.HomeState, &m.CurrencyPrecision,
		&m.OutputCGSTLedger, &m.OutputSGSTLedger, &m.OutputIGSTLedger,
		&m.InputCGSTLedger, &m.InputSGSTLedger, &m.InputIGSTLedger,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal config for company %s: %w", companyID, err)
	}
	d := mapping.ToDomainFiscalConfig(m)
	return &d, nil
}

// SaveFiscalConfig inserts or replaces the fiscal configuration.
func (r *PgxFiscalRepository) SaveFiscalConfig(ctx context.Context, cfg domain.FiscalConfig) error {
	m := mapping.ToModelFiscalConfig(cfg)
	query := `
		INSERT INTO fiscal_configs (` + fiscalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (company_id)
		DO UPDATE SET
			financial_year_start = EXCLUDED.financial_year_start,
			books_start = EXCLUDED.books_start,
			allow_backdated = EXCLUDED.allow_backdated,
			backdated_from = EXCLUDED.backdated_from,
			edit_log_enabled = EXCLUDED.edit_log_enabled,
			home_state = EXCLUDED.home_state,
			currency_precision = EXCLUDED.currency_precision,
			output_cgst_ledger = EXCLUDED.output_cgst_ledger,
			output_sgst_ledger = EXCLUDED.output_sgst_ledger,
			output_igst_ledger = EXCLUDED.output_igst_ledger,
			input_cgst_ledger = EXCLUDED.input_cgst_ledger,
			input_sgst_ledger = EXCLUDED.input_sgst_ledger,
			input_igst_ledger = EXCLUDED.input_igst_ledger,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.FinancialYearStart, m.BooksStart, m.AllowBackdated, m.BackdatedFrom,
		m.EditLogEnabled, m.HomeState, m.CurrencyPrecision,
		m.OutputCGSTLedger, m.OutputSGSTLedger, m.OutputIGSTLedger,
		m.InputCGSTLedger, m.InputSGSTLedger, m.InputIGSTLedger,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save fiscal config for company %s: %w", m.CompanyID, err)
	}
	return nil
}
