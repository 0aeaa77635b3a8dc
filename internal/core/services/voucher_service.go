package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
	"github.com/vyaparbooks/voucher_engine_app/internal/utils/accounting"
)

// maxPostAttempts bounds the posting retries when a MULTI_USER_AUTO counter
// race is lost. Each attempt reruns the whole commit transaction.
const maxPostAttempts = 3

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// voucherService is the posting engine. It assembles drafts, runs the
// pipeline (fiscal window, tax enrichment, balance and reference checks,
// number allocation) and hands the result to the repository for the atomic
// commit.
type voucherService struct {
	voucherRepo   portsrepo.VoucherRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	inventoryRepo portsrepo.InventoryRepositoryFacade
	numberingSvc  portssvc.NumberingSvcFacade
	fiscalSvc     portssvc.FiscalSvcFacade
	taxSvc        portssvc.TaxSvcFacade
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	inventoryRepo portsrepo.InventoryRepositoryFacade,
	numberingSvc portssvc.NumberingSvcFacade,
	fiscalSvc portssvc.FiscalSvcFacade,
	taxSvc portssvc.TaxSvcFacade,
) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo:   voucherRepo,
		ledgerRepo:    ledgerRepo,
		inventoryRepo: inventoryRepo,
		numberingSvc:  numberingSvc,
		fiscalSvc:     fiscalSvc,
		taxSvc:        taxSvc,
	}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// assembledVoucher is the output of the validation pipeline, ready for the
// atomic commit.
type assembledVoucher struct {
	voucher        domain.Voucher
	entries        []domain.VoucherEntry
	lines          []domain.InventoryLine
	balanceChanges map[string]decimal.Decimal
	stockChanges   map[domain.StockKey]decimal.Decimal
}

// CreateDraft runs the pipeline without allocating a number or committing
// anything. The enriched voucher is advisory; posting re-runs the pipeline.
func (s *voucherService) CreateDraft(ctx context.Context, companyID string, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error) {
	assembled, err := s.assemble(ctx, companyID, req, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	v := assembled.voucher
	v.Status = domain.StatusDraft
	v.Entries = assembled.entries
	v.InventoryLines = assembled.lines
	return &v, nil
}

// PostVoucher runs the full pipeline and commits the voucher atomically.
// A lost MULTI_USER_AUTO counter race reruns the commit transaction, bounded
// at maxPostAttempts.
func (s *voucherService) PostVoucher(ctx context.Context, companyID string, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	assembled, err := s.assemble(ctx, companyID, req, userID, now)
	if err != nil {
		return nil, err
	}

	series, err := s.numberingSvc.ResolveSeries(ctx, req.VoucherTypeID, req.SeriesID)
	if err != nil {
		return nil, err
	}
	assembled.voucher.SeriesID = series.SeriesID
	allocate := s.numberingSvc.AllocatorFor(*series, req.ManualNumber)

	number, err := s.commitWithRetry(ctx, series.SeriesID, func(ctx context.Context) (string, error) {
		return s.voucherRepo.SaveVoucher(ctx, assembled.voucher, assembled.entries, assembled.lines, assembled.balanceChanges, assembled.stockChanges, allocate)
	})
	if err != nil {
		return nil, err
	}

	v := assembled.voucher
	v.VoucherNumber = number
	v.Entries = assembled.entries
	v.InventoryLines = assembled.lines

	logger.Info("Voucher posted",
		slog.String("voucher_id", v.VoucherID),
		slog.String("voucher_number", number),
		slog.String("category", string(v.Category)),
		slog.String("total_amount", v.TotalAmount.String()))
	return &v, nil
}

// CancelVoucher posts a reversing voucher through the same commit path and
// marks the original CANCELLED. The reversal flips every entry side and
// negates every stock delta, so balances and stock return to their prior
// values without rewriting history.
func (s *voucherService) CancelVoucher(ctx context.Context, companyID, voucherID string, req dto.CancelVoucherRequest, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	original, err := s.GetVoucherByID(ctx, companyID, voucherID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: voucher %s is %s, only POSTED vouchers can be cancelled", apperrors.ErrPolicy, voucherID, original.Status)
	}
	if original.ReversingVoucherID != nil {
		return nil, fmt.Errorf("%w: voucher %s is already reversed by %s", apperrors.ErrPolicy, voucherID, *original.ReversingVoucherID)
	}

	reversalDate := now
	if req.Date != nil {
		reversalDate = *req.Date
	}
	if err := s.fiscalSvc.IsPostable(ctx, companyID, reversalDate); err != nil {
		return nil, apperrors.NewInvalidDate(reversalDate.Format(time.DateOnly), err)
	}

	assembled, err := s.assembleReversal(ctx, original, reversalDate, req.Narration, userID, now)
	if err != nil {
		return nil, err
	}

	series, err := s.numberingSvc.ResolveSeries(ctx, original.VoucherTypeID, original.SeriesID)
	if err != nil {
		return nil, err
	}
	assembled.voucher.SeriesID = series.SeriesID

	// MANUAL series have no counter to draw a reversal number from; derive
	// one from the original number instead.
	var manual *string
	if series.Method == domain.MethodManual {
		n := original.VoucherNumber + "-REV"
		manual = &n
	}
	allocate := s.numberingSvc.AllocatorFor(*series, manual)

	// The original's CANCELLED flip rides in the reversal's transaction,
	// guarded on the original still being POSTED and unreversed. A
	// concurrent cancel that committed first rolls this one back whole.
	number, err := s.commitWithRetry(ctx, series.SeriesID, func(ctx context.Context) (string, error) {
		return s.voucherRepo.SaveReversal(ctx, original.VoucherID, assembled.voucher, assembled.entries, assembled.lines, assembled.balanceChanges, assembled.stockChanges, allocate)
	})
	if err != nil {
		return nil, err
	}

	reversingID := assembled.voucher.VoucherID
	v := assembled.voucher
	v.VoucherNumber = number
	v.Entries = assembled.entries
	v.InventoryLines = assembled.lines

	logger.Info("Voucher cancelled",
		slog.String("original_voucher_id", original.VoucherID),
		slog.String("reversing_voucher_id", reversingID),
		slog.String("reversal_number", number))
	return &v, nil
}

// GetVoucherByID retrieves a voucher with entries and lines, scoped to the
// company.
func (s *voucherService) GetVoucherByID(ctx context.Context, companyID, voucherID string) (*domain.Voucher, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	if v.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return v, nil
}

// ListVouchers retrieves a page of vouchers, newest first.
func (s *voucherService) ListVouchers(ctx context.Context, companyID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	limit := clampLimit(params.Limit)
	filter := portsrepo.ListVouchersFilter{
		VoucherTypeID: params.VoucherTypeID,
		Status:        domain.VoucherStatus(params.Status),
	}

	vouchers, nextToken, err := s.voucherRepo.ListVouchers(ctx, companyID, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}

	resp := &dto.ListVouchersResponse{Vouchers: make([]dto.VoucherResponse, 0, len(vouchers)), NextToken: nextToken}
	for i := range vouchers {
		resp.Vouchers = append(resp.Vouchers, dto.ToVoucherResponse(&vouchers[i]))
	}
	return resp, nil
}

// ListEntriesByLedger retrieves a page of posted entries for a ledger.
func (s *voucherService) ListEntriesByLedger(ctx context.Context, companyID, ledgerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger %s: %w", ledgerID, err)
	}
	if ledger.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	limit := clampLimit(params.Limit)
	entries, nextToken, err := s.voucherRepo.ListEntriesByLedgerID(ctx, companyID, ledgerID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for ledger %s: %w", ledgerID, err)
	}

	resp := &dto.ListEntriesResponse{Entries: make([]dto.VoucherEntryResponse, 0, len(entries)), NextToken: nextToken}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToVoucherEntryResponse(&entries[i]))
	}
	return resp, nil
}

// assemble runs the validation and enrichment pipeline over a draft request:
// voucher type and fiscal window, inventory line enrichment, implicit tax
// entries, the balance invariant, referential checks and the signed delta
// maps for the commit.
func (s *voucherService) assemble(ctx context.Context, companyID string, req dto.CreateVoucherRequest, userID string, now time.Time) (*assembledVoucher, error) {
	vt, err := s.numberingSvc.GetVoucherTypeByID(ctx, companyID, req.VoucherTypeID)
	if err != nil {
		return nil, err
	}
	if !vt.IsActive {
		return nil, apperrors.NewIntegrity("voucherType", vt.VoucherTypeID, "inactive")
	}
	profile, ok := vt.Category.Profile()
	if !ok {
		return nil, fmt.Errorf("%w: voucher type %s has unknown category %q", apperrors.ErrValidation, vt.VoucherTypeID, vt.Category)
	}

	cfg, err := s.fiscalSvc.GetFiscalConfig(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := cfg.IsPostable(req.Date); err != nil {
		return nil, apperrors.NewInvalidDate(req.Date.Format(time.DateOnly), err)
	}

	voucherID := uuid.NewString()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	lines, err := s.buildInventoryLines(ctx, vt.Category, voucherID, req.InventoryLines)
	if err != nil {
		return nil, err
	}
	lines = s.taxSvc.EnrichLines(*cfg, req.PlaceOfSupply, lines)

	entries, err := buildUserEntries(voucherID, req.Entries, audit, cfg.CurrencyPrecision)
	if err != nil {
		return nil, err
	}

	taxEntries, err := s.taxSvc.BuildTaxEntries(*cfg, vt.Category, voucherID, lines, userID, now)
	if err != nil {
		return nil, err
	}
	entries = append(entries, taxEntries...)

	debitTotal, creditTotal := accounting.SumEntrySides(entries)
	if !debitTotal.Equal(creditTotal) {
		return nil, apperrors.NewUnbalanced(debitTotal.String(), creditTotal.String())
	}

	balanceChanges, err := s.buildBalanceChanges(ctx, companyID, entries)
	if err != nil {
		return nil, err
	}
	stockChanges := buildStockChanges(profile.StockDirection, lines)

	voucher := domain.Voucher{
		VoucherID:     voucherID,
		CompanyID:     companyID,
		VoucherTypeID: vt.VoucherTypeID,
		Category:      vt.Category,
		VoucherDate:   req.Date,
		Reference:     req.Reference,
		Narration:     req.Narration,
		PartyLedgerID: req.PartyLedgerID,
		PlaceOfSupply: req.PlaceOfSupply,
		Status:        domain.StatusPosted,
		TotalAmount:   debitTotal,
		AuditFields:   audit,
	}

	return &assembledVoucher{
		voucher:        voucher,
		entries:        entries,
		lines:          lines,
		balanceChanges: balanceChanges,
		stockChanges:   stockChanges,
	}, nil
}

// assembleReversal mirrors a posted voucher: every entry side flipped, every
// stock delta negated. The original's entries already include its implicit
// tax entries, so the flip reverses those too.
func (s *voucherService) assembleReversal(ctx context.Context, original *domain.Voucher, date time.Time, narration, userID string, now time.Time) (*assembledVoucher, error) {
	reversalID := uuid.NewString()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	if narration == "" {
		narration = "Reversal of " + original.VoucherNumber
	}

	entries := make([]domain.VoucherEntry, 0, len(original.Entries))
	for _, e := range original.Entries {
		entries = append(entries, domain.VoucherEntry{
			EntryID:     uuid.NewString(),
			VoucherID:   reversalID,
			LedgerID:    e.LedgerID,
			EntryType:   e.EntryType.Opposite(),
			Amount:      e.Amount,
			Narration:   e.Narration,
			CostCenter:  e.CostCenter,
			AuditFields: audit,
		})
	}

	lines := make([]domain.InventoryLine, 0, len(original.InventoryLines))
	for _, l := range original.InventoryLines {
		line := l
		line.LineID = uuid.NewString()
		line.VoucherID = reversalID
		lines = append(lines, line)
	}

	balanceChanges, err := s.buildBalanceChanges(ctx, original.CompanyID, entries)
	if err != nil {
		return nil, err
	}

	profile, _ := original.Category.Profile()
	stockChanges := buildStockChanges(-profile.StockDirection, lines)

	originalID := original.VoucherID
	debitTotal, _ := accounting.SumEntrySides(entries)

	voucher := domain.Voucher{
		VoucherID:         reversalID,
		CompanyID:         original.CompanyID,
		VoucherTypeID:     original.VoucherTypeID,
		Category:          original.Category,
		VoucherDate:       date,
		Reference:         original.VoucherNumber,
		Narration:         narration,
		PartyLedgerID:     original.PartyLedgerID,
		PlaceOfSupply:     original.PlaceOfSupply,
		Status:            domain.StatusPosted,
		TotalAmount:       debitTotal,
		OriginalVoucherID: &originalID,
		AuditFields:       audit,
	}

	return &assembledVoucher{
		voucher:        voucher,
		entries:        entries,
		lines:          lines,
		balanceChanges: balanceChanges,
		stockChanges:   stockChanges,
	}, nil
}

// commitWithRetry runs the repository's single commit transaction via save.
// A conflict (a lost counter race) reruns the whole commit up to
// maxPostAttempts before reporting an allocation conflict.
func (s *voucherService) commitWithRetry(ctx context.Context, seriesID string, save func(context.Context) (string, error)) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var lastErr error
	for attempt := 1; attempt <= maxPostAttempts; attempt++ {
		number, err := save(ctx)
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			if _, ok := apperrors.AsVoucherError(err); ok {
				return "", err
			}
			if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrPolicy) || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrDuplicate) {
				return "", err
			}
			return "", apperrors.NewStorage(err)
		}
		lastErr = err
		logger.Warn("Posting commit lost a counter race, retrying",
			slog.String("series_id", seriesID),
			slog.Int("attempt", attempt))
	}

	logger.Error("Posting commit exhausted retries",
		slog.String("series_id", seriesID),
		slog.String("error", lastErr.Error()))
	return "", apperrors.NewAllocationConflict(seriesID, maxPostAttempts)
}

// buildInventoryLines validates the requested item movements and resolves
// item defaults. Categories without inventory semantics reject lines.
func (s *voucherService) buildInventoryLines(ctx context.Context, category domain.VoucherCategory, voucherID string, reqs []dto.InventoryLineRequest) ([]domain.InventoryLine, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	if !category.CarriesInventory() {
		return nil, fmt.Errorf("%w: category %s does not carry inventory lines", apperrors.ErrValidation, category)
	}

	itemIDs := make([]string, 0, len(reqs))
	warehouseIDs := make([]string, 0, len(reqs))
	for _, r := range reqs {
		itemIDs = append(itemIDs, r.ItemID)
		warehouseIDs = append(warehouseIDs, r.WarehouseID)
	}
	items, err := s.inventoryRepo.FindItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve items: %w", err)
	}
	warehouses, err := s.inventoryRepo.FindWarehousesByIDs(ctx, warehouseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve warehouses: %w", err)
	}

	lines := make([]domain.InventoryLine, 0, len(reqs))
	for _, r := range reqs {
		item, ok := items[r.ItemID]
		if !ok || !item.IsActive {
			return nil, apperrors.NewInvalidInventoryLine(r.ItemID, "item not found or inactive")
		}
		if _, ok := warehouses[r.WarehouseID]; !ok {
			return nil, apperrors.NewInvalidInventoryLine(r.ItemID, fmt.Sprintf("warehouse %s not found", r.WarehouseID))
		}
		if !r.Quantity.IsPositive() {
			return nil, apperrors.NewInvalidInventoryLine(r.ItemID, "quantity must be positive")
		}
		if r.Rate.IsNegative() {
			return nil, apperrors.NewInvalidInventoryLine(r.ItemID, "rate must not be negative")
		}
		if r.DiscountAmount.IsNegative() {
			return nil, apperrors.NewInvalidInventoryLine(r.ItemID, "discount must not be negative")
		}

		gstRate := item.GSTRatePercent
		if r.GSTRatePercent != nil {
			gstRate = *r.GSTRatePercent
		}
		if gstRate.IsNegative() {
			return nil, apperrors.NewInvalidInventoryLine(r.ItemID, "gst rate must not be negative")
		}

		lines = append(lines, domain.InventoryLine{
			LineID:         uuid.NewString(),
			VoucherID:      voucherID,
			ItemID:         r.ItemID,
			WarehouseID:    r.WarehouseID,
			Quantity:       r.Quantity,
			Rate:           r.Rate,
			DiscountAmount: r.DiscountAmount,
			GSTRatePercent: gstRate,
		})
	}
	return lines, nil
}

// buildBalanceChanges resolves every referenced ledger, verifies scope and
// activity, and accumulates the signed balance delta per ledger.
func (s *voucherService) buildBalanceChanges(ctx context.Context, companyID string, entries []domain.VoucherEntry) (map[string]decimal.Decimal, error) {
	ledgerIDs := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.LedgerID]; !ok {
			seen[e.LedgerID] = struct{}{}
			ledgerIDs = append(ledgerIDs, e.LedgerID)
		}
	}

	ledgers, err := s.ledgerRepo.FindLedgersByIDs(ctx, ledgerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ledgers: %w", err)
	}

	changes := make(map[string]decimal.Decimal, len(ledgerIDs))
	for _, e := range entries {
		ledger, ok := ledgers[e.LedgerID]
		if !ok {
			return nil, apperrors.NewIntegrity("ledger", e.LedgerID, "not found")
		}
		if ledger.CompanyID != companyID {
			return nil, apperrors.NewIntegrity("ledger", e.LedgerID, "belongs to another company")
		}
		if !ledger.IsActive {
			return nil, apperrors.NewIntegrity("ledger", e.LedgerID, "inactive")
		}
		delta, err := accounting.CalculateSignedDelta(e, ledger.BalanceSide)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		changes[e.LedgerID] = changes[e.LedgerID].Add(delta)
	}
	return changes, nil
}

// buildUserEntries converts the requested entries, checking amounts and bill
// reference consistency. Amounts are rounded to the company's currency
// precision before any check, so the balance invariant holds over the exact
// values that get stored.
func buildUserEntries(voucherID string, reqs []dto.VoucherEntryRequest, audit domain.AuditFields, precision int32) ([]domain.VoucherEntry, error) {
	entries := make([]domain.VoucherEntry, 0, len(reqs))
	for _, r := range reqs {
		amount := r.Amount.RoundBank(precision)
		if !amount.IsPositive() {
			return nil, fmt.Errorf("%w: entry amount for ledger %s must be positive", apperrors.ErrValidation, r.LedgerID)
		}

		entry := domain.VoucherEntry{
			EntryID:     uuid.NewString(),
			VoucherID:   voucherID,
			LedgerID:    r.LedgerID,
			EntryType:   domain.EntryType(r.EntryType),
			Amount:      amount,
			Narration:   r.Narration,
			CostCenter:  r.CostCenter,
			AuditFields: audit,
		}

		refTotal := decimal.Zero
		for _, br := range r.BillReferences {
			refAmount := br.Amount.RoundBank(precision)
			if !refAmount.IsPositive() {
				return nil, apperrors.NewInvalidBillReference(entry.EntryID, fmt.Sprintf("reference %s amount must be positive", br.Reference))
			}
			refTotal = refTotal.Add(refAmount)
			entry.BillReferences = append(entry.BillReferences, domain.BillReference{
				BillRefID:     uuid.NewString(),
				EntryID:       entry.EntryID,
				Reference:     br.Reference,
				Amount:        refAmount,
				ReferenceType: domain.BillReferenceType(br.ReferenceType),
				DueDate:       br.DueDate,
				Remarks:       br.Remarks,
			})
		}
		if refTotal.GreaterThan(entry.Amount) {
			return nil, apperrors.NewInvalidBillReference(entry.EntryID, fmt.Sprintf("reference total %s exceeds entry amount %s", refTotal.String(), entry.Amount.String()))
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// buildStockChanges accumulates signed quantity deltas per stock bucket.
func buildStockChanges(direction int, lines []domain.InventoryLine) map[domain.StockKey]decimal.Decimal {
	if len(lines) == 0 || direction == 0 {
		return nil
	}
	changes := make(map[domain.StockKey]decimal.Decimal, len(lines))
	for _, l := range lines {
		key := domain.StockKey{ItemID: l.ItemID, WarehouseID: l.WarehouseID}
		delta := l.Quantity
		if direction < 0 {
			delta = delta.Neg()
		}
		changes[key] = changes[key].Add(delta)
	}
	return changes
}
