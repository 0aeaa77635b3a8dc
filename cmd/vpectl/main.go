package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/repositories/database/pgsql"
	"github.com/vyaparbooks/voucher_engine_app/pkg/config"
	"github.com/vyaparbooks/voucher_engine_app/pkg/database"
)

var (
	companyID string
	actorID   string
)

var rootCmd = &cobra.Command{
	Use:   "vpectl",
	Short: "Operational CLI for the voucher engine",
	Long: `vpectl performs bulk operations against the voucher engine database:
importing master data from CSV files and inspecting numbering series.

It reads the same environment variables as the backend (PGSQL_URL, .env).`,
	SilenceUsage: true,
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&companyID, "company", "", "Company ID the operation is scoped to (required)")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "vpectl", "Actor recorded in audit fields")
	_ = rootCmd.MarkPersistentFlagRequired("company")
}

// connectServices builds the service container against the configured
// database. The caller must Close the returned pool.
func connectServices(ctx context.Context) (*portssvc.ServiceContainer, *pgxpool.Pool, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	return services.NewServiceContainer(repos), dbPool, nil
}
