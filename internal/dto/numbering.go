package dto

import (
	"time"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// CreateVoucherTypeRequest configures a new voucher type, optionally with
// its first numbering series.
type CreateVoucherTypeRequest struct {
	Name     string               `json:"name" binding:"required"`
	Category string               `json:"category" binding:"required,oneof=SALES PURCHASE DEBIT_NOTE CREDIT_NOTE PAYMENT RECEIPT JOURNAL CONTRA"`
	Series   *CreateSeriesRequest `json:"series"`
}

// CreateSeriesRequest configures a numbering series.
type CreateSeriesRequest struct {
	Prefix       string `json:"prefix"`
	Method       string `json:"method" binding:"required,oneof=MANUAL NONE AUTOMATIC AUTOMATIC_WITH_OVERRIDE MULTI_USER_AUTO"`
	StartCounter int64  `json:"startCounter"` // First issued number is StartCounter+1
	IsDefault    bool   `json:"isDefault"`
}

// CancelAllocationRequest records an intentionally skipped number.
type CancelAllocationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelAllocationResponse returns the skipped number.
type CancelAllocationResponse struct {
	SeriesID      string `json:"seriesID"`
	SkippedNumber string `json:"skippedNumber"`
}

// SeriesResponse mirrors a numbering series.
type SeriesResponse struct {
	SeriesID       string    `json:"seriesID"`
	VoucherTypeID  string    `json:"voucherTypeID"`
	Prefix         string    `json:"prefix"`
	Method         string    `json:"method"`
	CurrentCounter int64     `json:"currentCounter"`
	IsDefault      bool      `json:"isDefault"`
	CreatedAt      time.Time `json:"createdAt"`
}

// VoucherTypeResponse mirrors a voucher type with its series.
type VoucherTypeResponse struct {
	VoucherTypeID string           `json:"voucherTypeID"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	IsActive      bool             `json:"isActive"`
	Series        []SeriesResponse `json:"series,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ToSeriesResponse converts a domain numbering series.
func ToSeriesResponse(s *domain.NumberingSeries) SeriesResponse {
	return SeriesResponse{
		SeriesID:       s.SeriesID,
		VoucherTypeID:  s.VoucherTypeID,
		Prefix:         s.Prefix,
		Method:         string(s.Method),
		CurrentCounter: s.CurrentCounter,
		IsDefault:      s.IsDefault,
		CreatedAt:      s.CreatedAt,
	}
}

// ToVoucherTypeResponse converts a domain voucher type.
func ToVoucherTypeResponse(vt *domain.VoucherType, series []domain.NumberingSeries) VoucherTypeResponse {
	resp := VoucherTypeResponse{
		VoucherTypeID: vt.VoucherTypeID,
		Name:          vt.Name,
		Category:      string(vt.Category),
		IsActive:      vt.IsActive,
		CreatedAt:     vt.CreatedAt,
	}
	for i := range series {
		resp.Series = append(resp.Series, ToSeriesResponse(&series[i]))
	}
	return resp
}
