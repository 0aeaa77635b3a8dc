package services

import (
	"context"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
)

// NumberingSvcFacade manages voucher types, numbering series and number
// allocation policies.
type NumberingSvcFacade interface {
	// CreateVoucherType creates a voucher type, optionally with its
	// first (default) numbering series.
	CreateVoucherType(ctx context.Context, companyID string, req dto.CreateVoucherTypeRequest, userID string) (*domain.VoucherType, error)

	// GetVoucherTypeByID retrieves a voucher type.
	GetVoucherTypeByID(ctx context.Context, companyID, voucherTypeID string) (*domain.VoucherType, error)

	// ListVoucherTypes retrieves the voucher types of a company with
	// their series.
	ListVoucherTypes(ctx context.Context, companyID string) ([]dto.VoucherTypeResponse, error)

	// CreateSeries adds a numbering series to a voucher type.
	CreateSeries(ctx context.Context, companyID, voucherTypeID string, req dto.CreateSeriesRequest, userID string) (*domain.NumberingSeries, error)

	// SetDefaultSeries switches the current series of a voucher type.
	SetDefaultSeries(ctx context.Context, companyID, voucherTypeID, seriesID string) error

	// CancelAllocation explicitly skips the next number of a series,
	// recording the gap. Returns the skipped number.
	CancelAllocation(ctx context.Context, companyID, seriesID, reason, userID string) (string, error)

	// ResolveSeries picks the series a draft posts against: the explicit
	// seriesID when given, otherwise the voucher type's default.
	ResolveSeries(ctx context.Context, voucherTypeID, seriesID string) (*domain.NumberingSeries, error)

	// AllocatorFor builds the in-transaction allocation step for a series
	// and an optional manual number, implementing the series' numbering
	// method.
	AllocatorFor(series domain.NumberingSeries, manualNumber *string) portsrepo.AllocateFunc
}
