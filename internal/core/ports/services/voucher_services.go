package services

import (
	"context"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
)

// VoucherSvcFacade is the operation surface of the voucher posting engine.
type VoucherSvcFacade interface {
	// CreateDraft validates and enriches a draft voucher without posting
	// it: lines get their derived amounts, implicit tax entries are
	// appended and totals are computed. The result is advisory; posting
	// re-runs the full pipeline.
	CreateDraft(ctx context.Context, companyID string, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error)

	// PostVoucher runs the posting pipeline: fiscal window, tax
	// enrichment, balance check, reference validation, number allocation
	// and the atomic commit of all side effects.
	PostVoucher(ctx context.Context, companyID string, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error)

	// CancelVoucher posts a reversing voucher through the same pipeline,
	// links it to the original and marks the original CANCELLED.
	CancelVoucher(ctx context.Context, companyID, voucherID string, req dto.CancelVoucherRequest, userID string) (*domain.Voucher, error)

	// GetVoucherByID retrieves a voucher with entries and lines.
	GetVoucherByID(ctx context.Context, companyID, voucherID string) (*domain.Voucher, error)

	// ListVouchers retrieves a page of vouchers.
	ListVouchers(ctx context.Context, companyID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)

	// ListEntriesByLedger retrieves a page of posted entries for a ledger.
	ListEntriesByLedger(ctx context.Context, companyID, ledgerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
