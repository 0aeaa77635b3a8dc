package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
	"github.com/vyaparbooks/voucher_engine_app/internal/utils/mapping"
)

const voucherTypeColumns = `voucher_type_id, company_id, name, category, is_active, created_at, created_by, last_updated_at, last_updated_by`
const seriesColumns = `series_id, voucher_type_id, prefix, method, current_counter, is_default, created_at, created_by, last_updated_at, last_updated_by`

type PgxNumberingRepository struct {
	BaseRepository
}

// newPgxNumberingRepository creates a new repository for voucher types,
// numbering series and counter operations.
func newPgxNumberingRepository(pool *pgxpool.Pool) portsrepo.NumberingRepositoryFacade {
	return &PgxNumberingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NumberingRepositoryFacade = (*PgxNumberingRepository)(nil)

// SaveVoucherType persists a new voucher type.
func (r *PgxNumberingRepository) SaveVoucherType(ctx context.Context, vt domain.VoucherType) error {
	m := mapping.ToModelVoucherType(vt)
	query := `
		INSERT INTO voucher_types (` + voucherTypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.VoucherTypeID, m.CompanyID, m.Name, m.Category, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert voucher type %s: %w", m.VoucherTypeID, mapPgError(err))
	}
	return nil
}

// FindVoucherTypeByID retrieves a voucher type by its identifier.
func (r *PgxNumberingRepository) FindVoucherTypeByID(ctx context.Context, voucherTypeID string) (*domain.VoucherType, error) {
	query := `SELECT ` + voucherTypeColumns + ` FROM voucher_types WHERE voucher_type_id = $1;`

	var m models.VoucherType
	err := r.Pool.QueryRow(ctx, query, voucherTypeID).Scan(
		&m.VoucherTypeID, &m.CompanyID, &m.Name, &m.Category, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher type %s: %w", voucherTypeID, err)
	}
	d := mapping.ToDomainVoucherType(m)
	return &d, nil
}

// ListVoucherTypes retrieves all voucher types of a company.
func (r *PgxNumberingRepository) ListVoucherTypes(ctx context.Context, companyID string) ([]domain.VoucherType, error) {
	query := `SELECT ` + voucherTypeColumns + ` FROM voucher_types WHERE company_id = $1 ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voucher types for company %s: %w", companyID, err)
	}
	defer rows.Close()

	types := []domain.VoucherType{}
	for rows.Next() {
		var m models.VoucherType
		if err := rows.Scan(
			&m.VoucherTypeID, &m.CompanyID, &m.Name, &m.Category, &m.IsActive,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan voucher type row: %w", err)
		}
		types = append(types, mapping.ToDomainVoucherType(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher type rows: %w", err)
	}
	return types, nil
}

// SaveSeries persists a new numbering series.
func (r *PgxNumberingRepository) SaveSeries(ctx context.Context, series domain.NumberingSeries) error {
	m := mapping.ToModelNumberingSeries(series)
	query := `
		INSERT INTO numbering_series (` + seriesColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SeriesID, m.VoucherTypeID, m.Prefix, m.Method, m.CurrentCounter, m.IsDefault,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert numbering series %s: %w", m.SeriesID, mapPgError(err))
	}
	return nil
}

// FindSeriesByID retrieves a numbering series by its identifier.
func (r *PgxNumberingRepository) FindSeriesByID(ctx context.Context, seriesID string) (*domain.NumberingSeries, error) {
	query := `SELECT ` + seriesColumns + ` FROM numbering_series WHERE series_id = $1;`
	return r.querySeriesRow(ctx, query, seriesID)
}

// FindDefaultSeries retrieves the current default series of a voucher type.
func (r *PgxNumberingRepository) FindDefaultSeries(ctx context.Context, voucherTypeID string) (*domain.NumberingSeries, error) {
	query := `SELECT ` + seriesColumns + ` FROM numbering_series WHERE voucher_type_id = $1 AND is_default = TRUE;`
	return r.querySeriesRow(ctx, query, voucherTypeID)
}

// ListSeriesByVoucherType retrieves every series of a voucher type.
func (r *PgxNumberingRepository) ListSeriesByVoucherType(ctx context.Context, voucherTypeID string) ([]domain.NumberingSeries, error) {
	query := `SELECT ` + seriesColumns + ` FROM numbering_series WHERE voucher_type_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, voucherTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query series for voucher type %s: %w", voucherTypeID, err)
	}
	defer rows.Close()

	series := []domain.NumberingSeries{}
	for rows.Next() {
		var m models.NumberingSeries
		if err := rows.Scan(
			&m.SeriesID, &m.VoucherTypeID, &m.Prefix, &m.Method, &m.CurrentCounter, &m.IsDefault,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan series row: %w", err)
		}
		series = append(series, mapping.ToDomainNumberingSeries(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series rows: %w", err)
	}
	return series, nil
}

// SetDefaultSeries marks one series of a voucher type as current, clearing
// the flag on its siblings, in one transaction.
func (r *PgxNumberingRepository) SetDefaultSeries(ctx context.Context, voucherTypeID, seriesID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `UPDATE numbering_series SET is_default = FALSE WHERE voucher_type_id = $1;`, voucherTypeID); err != nil {
		return fmt.Errorf("failed to clear default series for voucher type %s: %w", voucherTypeID, err)
	}
	cmdTag, err := tx.Exec(ctx, `UPDATE numbering_series SET is_default = TRUE WHERE series_id = $1 AND voucher_type_id = $2;`, seriesID, voucherTypeID)
	if err != nil {
		return fmt.Errorf("failed to set default series %s: %w", seriesID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

// IncrementCounterInTx bumps the series counter under a row lock and
// returns the new counter value.
func (r *PgxNumberingRepository) IncrementCounterInTx(ctx context.Context, tx pgx.Tx, seriesID string) (int64, error) {
	query := `
		UPDATE numbering_series
		SET current_counter = current_counter + 1
		WHERE series_id = $1
		RETURNING current_counter;
	`
	var counter int64
	if err := tx.QueryRow(ctx, query, seriesID).Scan(&counter); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment counter for series %s: %w", seriesID, err)
	}
	return counter, nil
}

// CompareAndSwapCounterInTx sets the counter to next only if it still equals
// expected. Returns false when a concurrent allocation won the race.
func (r *PgxNumberingRepository) CompareAndSwapCounterInTx(ctx context.Context, tx pgx.Tx, seriesID string, expected, next int64) (bool, error) {
	query := `
		UPDATE numbering_series
		SET current_counter = $3
		WHERE series_id = $1 AND current_counter = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, seriesID, expected, next)
	if err != nil {
		return false, fmt.Errorf("failed to swap counter for series %s: %w", seriesID, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// ReadCounterInTx reads the current counter without locking the row.
func (r *PgxNumberingRepository) ReadCounterInTx(ctx context.Context, tx pgx.Tx, seriesID string) (int64, error) {
	var counter int64
	err := tx.QueryRow(ctx, `SELECT current_counter FROM numbering_series WHERE series_id = $1;`, seriesID).Scan(&counter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to read counter for series %s: %w", seriesID, err)
	}
	return counter, nil
}

// FastForwardCounterInTx raises the counter to at least value.
func (r *PgxNumberingRepository) FastForwardCounterInTx(ctx context.Context, tx pgx.Tx, seriesID string, value int64) error {
	query := `
		UPDATE numbering_series
		SET current_counter = GREATEST(current_counter, $2)
		WHERE series_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, seriesID, value)
	if err != nil {
		return fmt.Errorf("failed to fast-forward counter for series %s: %w", seriesID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// NumberExistsInTx reports whether a voucher number is already used within
// the series.
func (r *PgxNumberingRepository) NumberExistsInTx(ctx context.Context, tx pgx.Tx, seriesID, voucherNumber string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM vouchers WHERE series_id = $1 AND voucher_number = $2);`,
		seriesID, voucherNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check number %s in series %s: %w", voucherNumber, seriesID, err)
	}
	return exists, nil
}

// CancelAllocation consumes the next counter value of a series and records
// it as an intentionally skipped number, in one transaction.
func (r *PgxNumberingRepository) CancelAllocation(ctx context.Context, seriesID string, reason string, cancelledBy string) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	var prefix string
	if err := tx.QueryRow(ctx, `SELECT prefix FROM numbering_series WHERE series_id = $1 FOR UPDATE;`, seriesID).Scan(&prefix); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to lock series %s: %w", seriesID, err)
	}

	counter, err := r.IncrementCounterInTx(ctx, tx, seriesID)
	if err != nil {
		return "", err
	}
	skipped := prefix + strconv.FormatInt(counter, 10)

	gapQuery := `
		INSERT INTO numbering_gaps (gap_id, series_id, skipped_number, reason, cancelled_by, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := tx.Exec(ctx, gapQuery, uuid.NewString(), seriesID, skipped, reason, cancelledBy, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("failed to record numbering gap for series %s: %w", seriesID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return skipped, nil
}

func (r *PgxNumberingRepository) querySeriesRow(ctx context.Context, query string, arg any) (*domain.NumberingSeries, error) {
	var m models.NumberingSeries
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&m.SeriesID, &m.VoucherTypeID, &m.Prefix, &m.Method, &m.CurrentCounter, &m.IsDefault,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find numbering series: %w", err)
	}
	d := mapping.ToDomainNumberingSeries(m)
	return &d, nil
}
