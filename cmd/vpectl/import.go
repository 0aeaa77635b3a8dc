package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
)

var importFile string

var importLedgersCmd = &cobra.Command{
	Use:   "import-ledgers",
	Short: "Bulk create ledgers from a CSV file",
	Long: `Reads a CSV file with a header row and creates one ledger per record.

Expected columns: name,subtype,balance_side

Example:
  vpectl import-ledgers --company comp-1 --file ledgers.csv`,
	RunE: runImportLedgers,
}

var importVouchersCmd = &cobra.Command{
	Use:   "import-vouchers",
	Short: "Bulk post simple two-entry vouchers from a CSV file",
	Long: `Reads a CSV file with a header row and posts one voucher per record
through the full posting pipeline (fiscal window, balance check, numbering).
The import stops at the first rejected record.

Expected columns: voucher_type_id,date,debit_ledger_id,credit_ledger_id,amount,narration
Dates are YYYY-MM-DD.

Example:
  vpectl import-vouchers --company comp-1 --file vouchers.csv`,
	RunE: runImportVouchers,
}

var importItemsCmd = &cobra.Command{
	Use:   "import-items",
	Short: "Bulk create items from a CSV file",
	Long: `Reads a CSV file with a header row and creates one item per record.

Expected columns: name,unit,gst_rate_percent

Example:
  vpectl import-items --company comp-1 --file items.csv`,
	RunE: runImportItems,
}

func init() {
	rootCmd.AddCommand(importLedgersCmd)
	rootCmd.AddCommand(importItemsCmd)
	rootCmd.AddCommand(importVouchersCmd)

	importLedgersCmd.Flags().StringVar(&importFile, "file", "", "Path to the CSV file (required)")
	_ = importLedgersCmd.MarkFlagRequired("file")
	importItemsCmd.Flags().StringVar(&importFile, "file", "", "Path to the CSV file (required)")
	_ = importItemsCmd.MarkFlagRequired("file")
	importVouchersCmd.Flags().StringVar(&importFile, "file", "", "Path to the CSV file (required)")
	_ = importVouchersCmd.MarkFlagRequired("file")
}

func runImportLedgers(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svcs, dbPool, err := connectServices(ctx)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	records, err := readCSVRecords(importFile, 3)
	if err != nil {
		return err
	}

	created := 0
	for i, rec := range records {
		req := dto.CreateLedgerRequest{
			Name:        rec[0],
			Subtype:     rec[1],
			BalanceSide: rec[2],
		}
		ledger, err := svcs.Ledger.CreateLedger(ctx, companyID, req, actorID)
		if err != nil {
			return fmt.Errorf("record %d (%s): %w", i+1, rec[0], err)
		}
		slog.Info("Ledger created", slog.String("ledger_id", ledger.LedgerID), slog.String("name", ledger.Name))
		created++
	}

	fmt.Printf("Imported %d ledgers\n", created)
	return nil
}

func runImportItems(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svcs, dbPool, err := connectServices(ctx)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	records, err := readCSVRecords(importFile, 3)
	if err != nil {
		return err
	}

	created := 0
	for i, rec := range records {
		rate, err := decimal.NewFromString(rec[2])
		if err != nil {
			return fmt.Errorf("record %d (%s): invalid gst_rate_percent %q: %w", i+1, rec[0], rec[2], err)
		}
		req := dto.CreateItemRequest{
			Name:           rec[0],
			Unit:           rec[1],
			GSTRatePercent: rate,
		}
		item, err := svcs.Inventory.CreateItem(ctx, companyID, req, actorID)
		if err != nil {
			return fmt.Errorf("record %d (%s): %w", i+1, rec[0], err)
		}
		slog.Info("Item created", slog.String("item_id", item.ItemID), slog.String("name", item.Name))
		created++
	}

	fmt.Printf("Imported %d items\n", created)
	return nil
}

func runImportVouchers(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svcs, dbPool, err := connectServices(ctx)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	records, err := readCSVRecords(importFile, 6)
	if err != nil {
		return err
	}

	posted := 0
	for i, rec := range records {
		date, err := time.Parse(time.DateOnly, rec[1])
		if err != nil {
			return fmt.Errorf("record %d: invalid date %q: %w", i+1, rec[1], err)
		}
		amount, err := decimal.NewFromString(rec[4])
		if err != nil {
			return fmt.Errorf("record %d: invalid amount %q: %w", i+1, rec[4], err)
		}

		req := dto.CreateVoucherRequest{
			VoucherTypeID: rec[0],
			Date:          date,
			Narration:     rec[5],
			Entries: []dto.VoucherEntryRequest{
				{LedgerID: rec[2], EntryType: "DEBIT", Amount: amount},
				{LedgerID: rec[3], EntryType: "CREDIT", Amount: amount},
			},
		}
		voucher, err := svcs.Voucher.PostVoucher(ctx, companyID, req, actorID)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		slog.Info("Voucher posted",
			slog.String("voucher_id", voucher.VoucherID),
			slog.String("voucher_number", voucher.VoucherNumber))
		posted++
	}

	fmt.Printf("Posted %d vouchers\n", posted)
	return nil
}

// readCSVRecords reads all data rows from the file, skipping the header
// row and enforcing the column count.
func readCSVRecords(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	// Header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s is empty", path)
		}
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(rec) != wantCols {
			return nil, fmt.Errorf("%s: expected %d columns, got %d", path, wantCols, len(rec))
		}
		records = append(records, rec)
	}
	return records, nil
}
