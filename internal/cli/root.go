// Package cli implements the ledgerctl maintenance commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/infra/db"
	"github.com/expense-tracker/backend/internal/infra/dependency"
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Maintenance commands for the expense ledger",
	Long: `ledgerctl manages the expense ledger database: it applies schema
migrations, recomputes monthly balance snapshots and previews the
occurrences a recurring expense projects over a date range.
Configuration is read from the same environment as the API server.`,
	SilenceUsage: true,
}

// ledger bundles what a command needs and how to release it.
type ledger struct {
	cfg      *config.Config
	database *db.Database
	injector *dependency.Injector
}

func (l *ledger) Close() {
	if err := l.database.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
	}
}

// openLedger connects to the configured database. Tests replace it.
var openLedger = func() (*ledger, error) {
	cfg := config.Load()
	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}
	return &ledger{
		cfg:      cfg,
		database: database,
		injector: dependency.NewInjector(cfg, database.DB(), dependency.Dependencies{DBPing: database.Ping}),
	}, nil
}

// Execute runs the root command.
func Execute() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
