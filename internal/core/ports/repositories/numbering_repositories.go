package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// VoucherTypeReader defines read operations for voucher type configuration.
type VoucherTypeReader interface {
	// FindVoucherTypeByID retrieves a voucher type by its identifier.
	FindVoucherTypeByID(ctx context.Context, voucherTypeID string) (*domain.VoucherType, error)

	// ListVoucherTypes retrieves all voucher types of a company.
	ListVoucherTypes(ctx context.Context, companyID string) ([]domain.VoucherType, error)
}

// VoucherTypeWriter defines write operations for voucher type configuration.
type VoucherTypeWriter interface {
	// SaveVoucherType persists a new voucher type.
	SaveVoucherType(ctx context.Context, vt domain.VoucherType) error
}

// SeriesReader defines read operations for numbering series.
type SeriesReader interface {
	// FindSeriesByID retrieves a numbering series by its identifier.
	FindSeriesByID(ctx context.Context, seriesID string) (*domain.NumberingSeries, error)

	// FindDefaultSeries retrieves the current default series of a voucher type.
	FindDefaultSeries(ctx context.Context, voucherTypeID string) (*domain.NumberingSeries, error)

	// ListSeriesByVoucherType retrieves every series of a voucher type.
	ListSeriesByVoucherType(ctx context.Context, voucherTypeID string) ([]domain.NumberingSeries, error)
}

// SeriesWriter defines write operations for numbering series.
type SeriesWriter interface {
	// SaveSeries persists a new numbering series.
	SaveSeries(ctx context.Context, series domain.NumberingSeries) error

	// SetDefaultSeries marks one series of a voucher type as current,
	// clearing the flag on its siblings.
	SetDefaultSeries(ctx context.Context, voucherTypeID, seriesID string) error
}

// CounterOperator defines the counter primitives used by the allocator
// inside an open posting transaction. These are the only mutations of a
// series counter.
type CounterOperator interface {
	// IncrementCounterInTx bumps the series counter under a row lock and
	// returns the new counter value. Concurrent callers serialize on the
	// series row for the remainder of the transaction.
	IncrementCounterInTx(ctx context.Context, tx pgx.Tx, seriesID string) (int64, error)

	// CompareAndSwapCounterInTx sets the counter to next only if it still
	// equals expected. Returns false when a concurrent allocation won the
	// race; the caller must retry its entire allocation.
	CompareAndSwapCounterInTx(ctx context.Context, tx pgx.Tx, seriesID string, expected, next int64) (bool, error)

	// ReadCounterInTx reads the current counter without locking the row.
	ReadCounterInTx(ctx context.Context, tx pgx.Tx, seriesID string) (int64, error)

	// FastForwardCounterInTx raises the counter to at least value. Used by
	// AUTOMATIC_WITH_OVERRIDE when a manual number outruns the counter.
	FastForwardCounterInTx(ctx context.Context, tx pgx.Tx, seriesID string, value int64) error

	// NumberExistsInTx reports whether a voucher number is already used
	// within the series.
	NumberExistsInTx(ctx context.Context, tx pgx.Tx, seriesID, voucherNumber string) (bool, error)
}

// GapWriter records explicitly cancelled allocations, the only sanctioned
// source of numbering gaps.
type GapWriter interface {
	// CancelAllocation consumes the next counter value of a series and
	// records it as an intentionally skipped number. Returns the skipped
	// number.
	CancelAllocation(ctx context.Context, seriesID string, reason string, cancelledBy string) (string, error)
}

// NumberingRepositoryFacade combines all numbering repository interfaces.
type NumberingRepositoryFacade interface {
	VoucherTypeReader
	VoucherTypeWriter
	SeriesReader
	SeriesWriter
	CounterOperator
	GapWriter
}
