package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	"github.com/vyaparbooks/voucher_engine_app/internal/models"
	"github.com/vyaparbooks/voucher_engine_app/internal/utils/mapping"
	"github.com/vyaparbooks/voucher_engine_app/internal/utils/pagination"
)

const voucherColumns = `voucher_id, company_id, voucher_type_id, category, series_id, voucher_number, voucher_date, reference, narration, party_ledger_id, place_of_supply, status, total_amount, original_voucher_id, reversing_voucher_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxVoucherRepository struct {
	BaseRepository
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	inventoryRepo portsrepo.InventoryRepositoryFacade
}

// newPgxVoucherRepository creates a new repository for voucher data. The
// ledger and inventory repositories supply the in-transaction balance and
// stock operators used by the atomic commit.
func newPgxVoucherRepository(pool *pgxpool.Pool, ledgerRepo portsrepo.LedgerRepositoryFacade, inventoryRepo portsrepo.InventoryRepositoryFacade) portsrepo.VoucherRepositoryFacade {
	return &PgxVoucherRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerRepo:     ledgerRepo,
		inventoryRepo:  inventoryRepo,
	}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

// SaveVoucher commits a posted voucher in one database transaction: number
// allocation, the voucher row with entries, bill references and inventory
// lines, the ledger balance deltas and the stock deltas. The allocation runs
// first so a counter reservation rolls back with everything else.
func (r *PgxVoucherRepository) SaveVoucher(
	ctx context.Context,
	voucher domain.Voucher,
	entries []domain.VoucherEntry,
	lines []domain.InventoryLine,
	balanceChanges map[string]decimal.Decimal,
	stockChanges map[domain.StockKey]decimal.Decimal,
	allocate portsrepo.AllocateFunc,
) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	number, err := r.saveVoucherInTx(ctx, tx, voucher, entries, lines, balanceChanges, stockChanges, allocate)
	if err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to commit voucher %s: %w", voucher.VoucherID, err)
	}
	return number, nil
}

// SaveReversal commits a reversing voucher and flips the original to
// CANCELLED in the same transaction. The flip only matches an original that
// is still POSTED and unreversed; a concurrent cancel that got there first
// makes the update match zero rows and the whole transaction rolls back, so
// at most one reversal ever commits for a voucher.
func (r *PgxVoucherRepository) SaveReversal(
	ctx context.Context,
	originalVoucherID string,
	voucher domain.Voucher,
	entries []domain.VoucherEntry,
	lines []domain.InventoryLine,
	balanceChanges map[string]decimal.Decimal,
	stockChanges map[domain.StockKey]decimal.Decimal,
	allocate portsrepo.AllocateFunc,
) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	number, err := r.saveVoucherInTx(ctx, tx, voucher, entries, lines, balanceChanges, stockChanges, allocate)
	if err != nil {
		return "", err
	}

	flipQuery := `
		UPDATE vouchers
		SET status = $2, reversing_voucher_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE voucher_id = $1 AND status = 'POSTED' AND reversing_voucher_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, flipQuery,
		originalVoucherID, string(domain.StatusCancelled), voucher.VoucherID,
		voucher.LastUpdatedAt, voucher.LastUpdatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to cancel voucher %s: %w", originalVoucherID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return "", fmt.Errorf("%w: voucher %s is no longer POSTED or was already reversed", apperrors.ErrPolicy, originalVoucherID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to commit reversal of voucher %s: %w", originalVoucherID, err)
	}
	return number, nil
}

// saveVoucherInTx runs the shared commit body: number allocation, the
// voucher row with entries, bill references and inventory lines, the ledger
// balance deltas and the stock deltas.
func (r *PgxVoucherRepository) saveVoucherInTx(
	ctx context.Context,
	tx pgx.Tx,
	voucher domain.Voucher,
	entries []domain.VoucherEntry,
	lines []domain.InventoryLine,
	balanceChanges map[string]decimal.Decimal,
	stockChanges map[domain.StockKey]decimal.Decimal,
	allocate portsrepo.AllocateFunc,
) (string, error) {
	number, err := allocate(ctx, tx)
	if err != nil {
		return "", err
	}
	voucher.VoucherNumber = number

	now := voucher.CreatedAt
	userID := voucher.CreatedBy

	// 1. Insert the voucher row.
	m := mapping.ToModelVoucher(voucher)
	voucherQuery := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, voucherQuery,
		m.VoucherID, m.CompanyID, m.VoucherTypeID, m.Category, m.SeriesID, m.VoucherNumber,
		m.VoucherDate, m.Reference, m.Narration, m.PartyLedgerID, m.PlaceOfSupply, m.Status,
		m.TotalAmount, m.OriginalVoucherID, m.ReversingVoucherID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert voucher %s: %w", m.VoucherID, mapPgError(err))
	}

	// 2. Lock the affected ledgers in ID order, then apply balance deltas.
	ledgerIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ledgerIDs = append(ledgerIDs, id)
	}
	if _, err := r.ledgerRepo.FindLedgersByIDsForUpdate(ctx, tx, ledgerIDs); err != nil {
		return "", fmt.Errorf("failed to lock ledgers for voucher %s: %w", m.VoucherID, err)
	}
	if err := r.ledgerRepo.UpdateLedgerBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return "", fmt.Errorf("failed to update ledger balances for voucher %s: %w", m.VoucherID, err)
	}

	// 3. Insert entries and their bill references as one batch.
	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO voucher_entries (entry_id, voucher_id, ledger_id, entry_type, amount, narration, cost_center, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	billRefQuery := `
		INSERT INTO bill_references (bill_ref_id, entry_id, reference, amount, reference_type, due_date, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, e := range entries {
		me := mapping.ToModelVoucherEntry(e)
		batch.Queue(entryQuery,
			me.EntryID, me.VoucherID, me.LedgerID, me.EntryType, me.Amount, me.Narration, me.CostCenter,
			now, userID, now, userID,
		)
		for _, br := range e.BillReferences {
			mb := mapping.ToModelBillReference(br)
			batch.Queue(billRefQuery, mb.BillRefID, mb.EntryID, mb.Reference, mb.Amount, mb.ReferenceType, mb.DueDate, mb.Remarks)
		}
	}

	// 4. Insert inventory lines in the same batch.
	lineQuery := `
		INSERT INTO inventory_lines (line_id, voucher_id, item_id, warehouse_id, quantity, rate, discount_amount, gst_rate_percent, line_amount, tax_amount, cgst_amount, sgst_amount, igst_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, l := range lines {
		ml := mapping.ToModelInventoryLine(l)
		batch.Queue(lineQuery,
			ml.LineID, ml.VoucherID, ml.ItemID, ml.WarehouseID, ml.Quantity, ml.Rate, ml.DiscountAmount,
			ml.GSTRatePercent, ml.LineAmount, ml.TaxAmount, ml.CGSTAmount, ml.SGSTAmount, ml.IGSTAmount,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return "", fmt.Errorf("failed to execute entry batch for voucher %s: %w", m.VoucherID, mapPgError(err))
	}

	// 5. Apply stock deltas.
	if len(stockChanges) > 0 {
		if err := r.inventoryRepo.UpsertStockDeltasInTx(ctx, tx, stockChanges, now); err != nil {
			return "", fmt.Errorf("failed to apply stock deltas for voucher %s: %w", m.VoucherID, err)
		}
	}

	return number, nil
}

// FindVoucherByID retrieves a voucher with its entries, bill references and
// inventory lines.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`

	m, err := scanVoucherRow(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	voucher := mapping.ToDomainVoucher(*m)

	entries, err := r.findEntriesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	voucher.Entries = entries

	lines, err := r.findLinesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	voucher.InventoryLines = lines

	return &voucher, nil
}

// ListVouchers retrieves a page of vouchers for a company using token-based
// pagination, newest first. Entries and lines are not loaded.
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, companyID string, filter portsrepo.ListVouchersFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + voucherColumns + ` FROM vouchers`
	filterClause := `WHERE company_id = $1`
	args := []interface{}{companyID}

	if filter.VoucherTypeID != "" {
		args = append(args, filter.VoucherTypeID)
		filterClause += ` AND voucher_type_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY voucher_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %w", apperrors.ErrValidation, decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (voucher_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query vouchers for company %s: %w", companyID, err)
	}
	defer rows.Close()

	modelVouchers := make([]models.Voucher, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanVoucherRow(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan voucher row: %w", scanErr)
		}
		modelVouchers = append(modelVouchers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}

	var nextTokenVal *string
	results := modelVouchers
	if len(modelVouchers) > limit {
		last := modelVouchers[limit-1]
		token := pagination.EncodeToken(last.VoucherDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelVouchers[:limit]
	}

	vouchers := make([]domain.Voucher, len(results))
	for i, m := range results {
		vouchers[i] = mapping.ToDomainVoucher(m)
	}
	return vouchers, nextTokenVal, nil
}

// ListEntriesByLedgerID retrieves a page of posted entries hitting a ledger
// using token-based pagination, newest first.
func (r *PgxVoucherRepository) ListEntriesByLedgerID(ctx context.Context, companyID, ledgerID string, limit int, nextToken *string) ([]domain.VoucherEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT e.entry_id, e.voucher_id, e.ledger_id, e.entry_type, e.amount, e.narration, e.cost_center,
		       e.created_at, e.created_by, e.last_updated_at, e.last_updated_by, v.voucher_date
		FROM voucher_entries e
		JOIN vouchers v ON e.voucher_id = v.voucher_id
	`
	filterClause := `WHERE e.ledger_id = $1 AND v.company_id = $2 AND v.status = 'POSTED'`
	orderByClause := `ORDER BY v.voucher_date DESC, e.created_at DESC`
	args := []interface{}{ledgerID, companyID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %w", apperrors.ErrValidation, decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (v.voucher_date, e.created_at) < ($3, $4)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for ledger %s: %w", ledgerID, err)
	}
	defer rows.Close()

	type entryWithDate struct {
		entry models.VoucherEntry
		date  time.Time
	}
	scanned := make([]entryWithDate, 0, fetchLimit)
	for rows.Next() {
		var e models.VoucherEntry
		var voucherDate time.Time
		if err := rows.Scan(
			&e.EntryID, &e.VoucherID, &e.LedgerID, &e.EntryType, &e.Amount, &e.Narration, &e.CostCenter,
			&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy, &voucherDate,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row for ledger %s: %w", ledgerID, err)
		}
		scanned = append(scanned, entryWithDate{entry: e, date: voucherDate})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows for ledger %s: %w", ledgerID, err)
	}

	var nextTokenVal *string
	results := scanned
	if len(scanned) > limit {
		last := scanned[limit-1]
		token := pagination.EncodeToken(last.date, last.entry.CreatedAt)
		nextTokenVal = &token
		results = scanned[:limit]
	}

	entries := make([]domain.VoucherEntry, len(results))
	for i, s := range results {
		entries[i] = mapping.ToDomainVoucherEntry(s.entry)
	}
	return entries, nextTokenVal, nil
}

// findEntriesByVoucherID loads all entries of one voucher with their bill
// references.
func (r *PgxVoucherRepository) findEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherEntry, error) {
	query := `
		SELECT entry_id, voucher_id, ledger_id, entry_type, amount, narration, cost_center,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM voucher_entries
		WHERE voucher_id = $1
		ORDER BY created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for voucher %s: %w", voucherID, err)
	}
	defer rows.Close()

	entries := []domain.VoucherEntry{}
	entryIDs := []string{}
	for rows.Next() {
		var e models.VoucherEntry
		if err := rows.Scan(
			&e.EntryID, &e.VoucherID, &e.LedgerID, &e.EntryType, &e.Amount, &e.Narration, &e.CostCenter,
			&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry row for voucher %s: %w", voucherID, err)
		}
		entries = append(entries, mapping.ToDomainVoucherEntry(e))
		entryIDs = append(entryIDs, e.EntryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for voucher %s: %w", voucherID, err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	refs, err := r.findBillReferencesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].BillReferences = refs[entries[i].EntryID]
	}
	return entries, nil
}

func (r *PgxVoucherRepository) findBillReferencesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.BillReference, error) {
	query := `
		SELECT bill_ref_id, entry_id, reference, amount, reference_type, due_date, remarks
		FROM bill_references
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, bill_ref_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query bill references: %w", err)
	}
	defer rows.Close()

	refs := make(map[string][]domain.BillReference)
	for rows.Next() {
		var b models.BillReference
		if err := rows.Scan(&b.BillRefID, &b.EntryID, &b.Reference, &b.Amount, &b.ReferenceType, &b.DueDate, &b.Remarks); err != nil {
			return nil, fmt.Errorf("failed to scan bill reference row: %w", err)
		}
		refs[b.EntryID] = append(refs[b.EntryID], mapping.ToDomainBillReference(b))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill reference rows: %w", err)
	}
	return refs, nil
}

func (r *PgxVoucherRepository) findLinesByVoucherID(ctx context.Context, voucherID string) ([]domain.InventoryLine, error) {
	query := `
		SELECT line_id, voucher_id, item_id, warehouse_id, quantity, rate, discount_amount, gst_rate_percent,
		       line_amount, tax_amount, cgst_amount, sgst_amount, igst_amount
		FROM inventory_lines
		WHERE voucher_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory lines for voucher %s: %w", voucherID, err)
	}
	defer rows.Close()

	lines := []domain.InventoryLine{}
	for rows.Next() {
		var l models.InventoryLine
		if err := rows.Scan(
			&l.LineID, &l.VoucherID, &l.ItemID, &l.WarehouseID, &l.Quantity, &l.Rate, &l.DiscountAmount,
			&l.GSTRatePercent, &l.LineAmount, &l.TaxAmount, &l.CGSTAmount, &l.SGSTAmount, &l.IGSTAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inventory line row for voucher %s: %w", voucherID, err)
		}
		lines = append(lines, mapping.ToDomainInventoryLine(l))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory line rows for voucher %s: %w", voucherID, err)
	}
	return lines, nil
}

func scanVoucherRow(row rowScanner) (*models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID, &m.CompanyID, &m.VoucherTypeID, &m.Category, &m.SeriesID, &m.VoucherNumber,
		&m.VoucherDate, &m.Reference, &m.Narration, &m.PartyLedgerID, &m.PlaceOfSupply, &m.Status,
		&m.TotalAmount, &m.OriginalVoucherID, &m.ReversingVoucherID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
