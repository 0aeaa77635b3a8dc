package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "List voucher types and their numbering series",
	Example: `  vpectl series --company comp-1`,
	RunE:    runSeries,
}

func init() {
	rootCmd.AddCommand(seriesCmd)
}

func runSeries(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svcs, dbPool, err := connectServices(ctx)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	types, err := svcs.Numbering.ListVoucherTypes(ctx, companyID)
	if err != nil {
		return err
	}

	for _, vt := range types {
		fmt.Printf("%s  %s (%s)\n", vt.VoucherTypeID, vt.Name, vt.Category)
		for _, s := range vt.Series {
			marker := " "
			if s.IsDefault {
				marker = "*"
			}
			fmt.Printf("  %s %s  prefix=%q method=%s counter=%d\n",
				marker, s.SeriesID, s.Prefix, s.Method, s.CurrentCounter)
		}
	}
	return nil
}
