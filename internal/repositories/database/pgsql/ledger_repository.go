package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
	"github.com/vyaparbooks/voucher_engine_app/internal/utils/mapping"
)

const ledgerColumns = `ledger_id, company_id, name, subtype, balance_side, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveLedger persists a new ledger.
func (r *PgxLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	m := mapping.ToModelLedger(ledger)
	query := `
		INSERT INTO ledgers (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LedgerID, m.CompanyID, m.Name, m.Subtype, m.BalanceSide, m.Balance, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger %s: %w", m.LedgerID, mapPgError(err))
	}
	return nil
}

// FindLedgerByID retrieves a single ledger by its identifier.
func (r *PgxLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE ledger_id = $1;`

	m, err := scanLedgerRow(r.Pool.QueryRow(ctx, query, ledgerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger %s: %w", ledgerID, err)
	}
	d := mapping.ToDomainLedger(*m)
	return &d, nil
}

// FindLedgersByIDs retrieves multiple ledgers keyed by ID.
func (r *PgxLedgerRepository) FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	if len(ledgerIDs) == 0 {
		return map[string]domain.Ledger{}, nil
	}
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE ledger_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, ledgerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledgers by IDs: %w", err)
	}
	defer rows.Close()

	return collectLedgerMap(rows)
}

// ListLedgers retrieves ledgers for a company with offset pagination.
func (r *PgxLedgerRepository) ListLedgers(ctx context.Context, companyID string, limit int, offset int) ([]domain.Ledger, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledgers
		WHERE company_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledgers for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ledgers := []domain.Ledger{}
	for rows.Next() {
		m, err := scanLedgerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		ledgers = append(ledgers, mapping.ToDomainLedger(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return ledgers, nil
}

// DeactivateLedger soft-deletes a ledger.
func (r *PgxLedgerRepository) DeactivateLedger(ctx context.Context, ledgerID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE ledgers
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE ledger_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, ledgerID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate ledger %s: %w", ledgerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindLedgersByIDsForUpdate retrieves and row-locks ledgers within tx.
// IDs are sorted before locking so concurrent posts acquire locks in the
// same order.
func (r *PgxLedgerRepository) FindLedgersByIDsForUpdate(ctx context.Context, tx pgx.Tx, ledgerIDs []string) (map[string]domain.Ledger, error) {
	if len(ledgerIDs) == 0 {
		return map[string]domain.Ledger{}, nil
	}
	sorted := make([]string, len(ledgerIDs))
	copy(sorted, ledgerIDs)
	sort.Strings(sorted)

	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE ledger_id = ANY($1) ORDER BY ledger_id FOR UPDATE;`

	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to lock ledgers for update: %w", err)
	}
	defer rows.Close()

	ledgers, err := collectLedgerMap(rows)
	if err != nil {
		return nil, err
	}
	for _, id := range sorted {
		if _, ok := ledgers[id]; !ok {
			return nil, fmt.Errorf("ledger %s: %w", id, apperrors.ErrNotFound)
		}
	}
	return ledgers, nil
}

// UpdateLedgerBalancesInTx applies signed balance deltas within tx.
func (r *PgxLedgerRepository) UpdateLedgerBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE ledgers
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE ledger_id = $1;
	`
	batch := &pgx.Batch{}
	ids := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		batch.Queue(query, id, balanceChanges[id], updatedAt, updatedBy)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to apply ledger balance deltas: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLedgerRow(row rowScanner) (*models.Ledger, error) {
	var m models.Ledger
	err := row.Scan(
		&m.LedgerID, &m.CompanyID, &m.Name, &m.Subtype, &m.BalanceSide, &m.Balance, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectLedgerMap(rows pgx.Rows) (map[string]domain.Ledger, error) {
	ledgers := make(map[string]domain.Ledger)
	for rows.Next() {
		m, err := scanLedgerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		ledgers[m.LedgerID] = mapping.ToDomainLedger(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return ledgers, nil
}
