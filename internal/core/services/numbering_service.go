package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
)

var (
	ErrManualNumberRequired  = errors.New("numbering method MANUAL requires a caller-supplied number")
	ErrManualNumberForbidden = errors.New("numbering method AUTOMATIC does not permit a manual number")
	ErrUnknownMethod         = errors.New("unknown numbering method")
)

// numberingService manages voucher types and numbering series and builds
// the per-series allocation step used inside the posting transaction.
type numberingService struct {
	numberingRepo portsrepo.NumberingRepositoryFacade
}

// NewNumberingService creates a new NumberingService.
func NewNumberingService(numberingRepo portsrepo.NumberingRepositoryFacade) portssvc.NumberingSvcFacade {
	return &numberingService{numberingRepo: numberingRepo}
}

var _ portssvc.NumberingSvcFacade = (*numberingService)(nil)

// CreateVoucherType creates a voucher type, optionally with its first
// numbering series.
func (s *numberingService) CreateVoucherType(ctx context.Context, companyID string, req dto.CreateVoucherTypeRequest, userID string) (*domain.VoucherType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	category := domain.VoucherCategory(req.Category)
	if _, ok := category.Profile(); !ok {
		return nil, fmt.Errorf("%w: unknown voucher category %q", apperrors.ErrValidation, req.Category)
	}

	now := time.Now().UTC()
	vt := domain.VoucherType{
		VoucherTypeID: uuid.NewString(),
		CompanyID:     companyID,
		Name:          req.Name,
		Category:      category,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.numberingRepo.SaveVoucherType(ctx, vt); err != nil {
		logger.Error("Failed to save voucher type", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save voucher type: %w", err)
	}

	if req.Series != nil {
		seriesReq := *req.Series
		seriesReq.IsDefault = true // The first series is always current
		if _, err := s.CreateSeries(ctx, companyID, vt.VoucherTypeID, seriesReq, userID); err != nil {
			return nil, err
		}
	}

	logger.Info("Voucher type created", slog.String("voucher_type_id", vt.VoucherTypeID), slog.String("category", req.Category))
	return &vt, nil
}

// GetVoucherTypeByID retrieves a voucher type, scoped to the company.
func (s *numberingService) GetVoucherTypeByID(ctx context.Context, companyID, voucherTypeID string) (*domain.VoucherType, error) {
	vt, err := s.numberingRepo.FindVoucherTypeByID(ctx, voucherTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find voucher type %s: %w", voucherTypeID, err)
	}
	if vt.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return vt, nil
}

// ListVoucherTypes retrieves the voucher types of a company with series.
func (s *numberingService) ListVoucherTypes(ctx context.Context, companyID string) ([]dto.VoucherTypeResponse, error) {
	types, err := s.numberingRepo.ListVoucherTypes(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list voucher types: %w", err)
	}

	responses := make([]dto.VoucherTypeResponse, 0, len(types))
	for i := range types {
		series, err := s.numberingRepo.ListSeriesByVoucherType(ctx, types[i].VoucherTypeID)
		if err != nil {
			return nil, fmt.Errorf("failed to list series for voucher type %s: %w", types[i].VoucherTypeID, err)
		}
		responses = append(responses, dto.ToVoucherTypeResponse(&types[i], series))
	}
	return responses, nil
}

// CreateSeries adds a numbering series to a voucher type.
func (s *numberingService) CreateSeries(ctx context.Context, companyID, voucherTypeID string, req dto.CreateSeriesRequest, userID string) (*domain.NumberingSeries, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetVoucherTypeByID(ctx, companyID, voucherTypeID); err != nil {
		return nil, err
	}

	method := domain.NumberingMethod(req.Method)
	known := false
	for _, m := range domain.KnownNumberingMethods {
		if m == method {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: %w %q", apperrors.ErrValidation, ErrUnknownMethod, req.Method)
	}
	if req.StartCounter < 0 {
		return nil, fmt.Errorf("%w: start counter must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	series := domain.NumberingSeries{
		SeriesID:       uuid.NewString(),
		VoucherTypeID:  voucherTypeID,
		Prefix:         req.Prefix,
		Method:         method,
		CurrentCounter: req.StartCounter,
		IsDefault:      req.IsDefault,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.numberingRepo.SaveSeries(ctx, series); err != nil {
		logger.Error("Failed to save numbering series", slog.String("error", err.Error()), slog.String("voucher_type_id", voucherTypeID))
		return nil, fmt.Errorf("failed to save numbering series: %w", err)
	}

	if req.IsDefault {
		if err := s.numberingRepo.SetDefaultSeries(ctx, voucherTypeID, series.SeriesID); err != nil {
			return nil, fmt.Errorf("failed to set default series: %w", err)
		}
	}

	logger.Info("Numbering series created", slog.String("series_id", series.SeriesID), slog.String("method", req.Method))
	return &series, nil
}

// SetDefaultSeries switches the current series of a voucher type.
func (s *numberingService) SetDefaultSeries(ctx context.Context, companyID, voucherTypeID, seriesID string) error {
	if _, err := s.GetVoucherTypeByID(ctx, companyID, voucherTypeID); err != nil {
		return err
	}
	series, err := s.numberingRepo.FindSeriesByID(ctx, seriesID)
	if err != nil {
		return fmt.Errorf("failed to find series %s: %w", seriesID, err)
	}
	if series.VoucherTypeID != voucherTypeID {
		return apperrors.ErrNotFound
	}
	return s.numberingRepo.SetDefaultSeries(ctx, voucherTypeID, seriesID)
}

// CancelAllocation explicitly skips the next number of a series. This is
// the only sanctioned way to create a gap.
func (s *numberingService) CancelAllocation(ctx context.Context, companyID, seriesID, reason, userID string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	series, err := s.numberingRepo.FindSeriesByID(ctx, seriesID)
	if err != nil {
		return "", fmt.Errorf("failed to find series %s: %w", seriesID, err)
	}
	if _, err := s.GetVoucherTypeByID(ctx, companyID, series.VoucherTypeID); err != nil {
		return "", err
	}
	if series.Method == domain.MethodManual || series.Method == domain.MethodNone {
		return "", fmt.Errorf("%w: series method %s has no counter to skip", apperrors.ErrValidation, series.Method)
	}

	skipped, err := s.numberingRepo.CancelAllocation(ctx, seriesID, reason, userID)
	if err != nil {
		return "", fmt.Errorf("failed to cancel allocation on series %s: %w", seriesID, err)
	}

	logger.Info("Allocation cancelled", slog.String("series_id", seriesID), slog.String("skipped_number", skipped))
	return skipped, nil
}

// ResolveSeries picks the series a draft posts against.
func (s *numberingService) ResolveSeries(ctx context.Context, voucherTypeID, seriesID string) (*domain.NumberingSeries, error) {
	if seriesID != "" {
		series, err := s.numberingRepo.FindSeriesByID(ctx, seriesID)
		if err != nil {
			return nil, fmt.Errorf("failed to find series %s: %w", seriesID, err)
		}
		if series.VoucherTypeID != voucherTypeID {
			return nil, fmt.Errorf("%w: series %s does not belong to voucher type %s", apperrors.ErrValidation, seriesID, voucherTypeID)
		}
		return series, nil
	}
	series, err := s.numberingRepo.FindDefaultSeries(ctx, voucherTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find default series for voucher type %s: %w", voucherTypeID, err)
	}
	return series, nil
}

// AllocatorFor builds the in-transaction allocation step for a series and
// an optional manual number. The returned func runs inside the posting
// transaction so the reservation commits or rolls back with the voucher's
// side effects; gaps therefore never arise from failed posts.
func (s *numberingService) AllocatorFor(series domain.NumberingSeries, manualNumber *string) portsrepo.AllocateFunc {
	manual := ""
	if manualNumber != nil {
		manual = strings.TrimSpace(*manualNumber)
	}

	switch series.Method {
	case domain.MethodNone:
		return func(ctx context.Context, tx pgx.Tx) (string, error) {
			return "", nil
		}

	case domain.MethodManual:
		return func(ctx context.Context, tx pgx.Tx) (string, error) {
			if manual == "" {
				return "", fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrManualNumberRequired)
			}
			exists, err := s.numberingRepo.NumberExistsInTx(ctx, tx, series.SeriesID, manual)
			if err != nil {
				return "", err
			}
			if exists {
				return "", apperrors.NewDuplicateNumber(series.SeriesID, manual)
			}
			return manual, nil
		}

	case domain.MethodAutomatic:
		return func(ctx context.Context, tx pgx.Tx) (string, error) {
			if manual != "" {
				return "", fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrManualNumberForbidden)
			}
			next, err := s.numberingRepo.IncrementCounterInTx(ctx, tx, series.SeriesID)
			if err != nil {
				return "", err
			}
			return formatVoucherNumber(series.Prefix, next), nil
		}

	case domain.MethodAutomaticWithOverride:
		return func(ctx context.Context, tx pgx.Tx) (string, error) {
			if manual == "" {
				next, err := s.numberingRepo.IncrementCounterInTx(ctx, tx, series.SeriesID)
				if err != nil {
					return "", err
				}
				return formatVoucherNumber(series.Prefix, next), nil
			}

			exists, err := s.numberingRepo.NumberExistsInTx(ctx, tx, series.SeriesID, manual)
			if err != nil {
				return "", err
			}
			if exists {
				return "", apperrors.NewDuplicateNumber(series.SeriesID, manual)
			}

			// A numeric manual number ahead of the counter drags the
			// counter forward so future automatic numbers stay monotonic.
			// Non-numeric manual numbers leave the counter untouched.
			if numeric, ok := numericPart(series.Prefix, manual); ok {
				current, err := s.numberingRepo.ReadCounterInTx(ctx, tx, series.SeriesID)
				if err != nil {
					return "", err
				}
				if numeric > current {
					if err := s.numberingRepo.FastForwardCounterInTx(ctx, tx, series.SeriesID, numeric); err != nil {
						return "", err
					}
				}
			}
			return manual, nil
		}

	case domain.MethodMultiUserAuto:
		return func(ctx context.Context, tx pgx.Tx) (string, error) {
			current, err := s.numberingRepo.ReadCounterInTx(ctx, tx, series.SeriesID)
			if err != nil {
				return "", err
			}
			next := current + 1
			won, err := s.numberingRepo.CompareAndSwapCounterInTx(ctx, tx, series.SeriesID, current, next)
			if err != nil {
				return "", err
			}
			if !won {
				// Lost the race; the whole allocation (and transaction)
				// must be retried with a fresh counter read.
				return "", fmt.Errorf("%w: series %s counter moved past %d", apperrors.ErrConflict, series.SeriesID, current)
			}
			return formatVoucherNumber(series.Prefix, next), nil
		}
	}

	return func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "", fmt.Errorf("%w: %w %q", apperrors.ErrValidation, ErrUnknownMethod, series.Method)
	}
}

// formatVoucherNumber renders prefix + counter, e.g. "INV-42".
func formatVoucherNumber(prefix string, counter int64) string {
	return prefix + strconv.FormatInt(counter, 10)
}

// numericPart extracts the numeric value of a manual number under a series
// prefix. Returns false when the remainder is not a plain integer.
func numericPart(prefix, number string) (int64, bool) {
	rest := strings.TrimPrefix(number, prefix)
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
