package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/expense-tracker/backend/internal/infra/db"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateUp,
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.database.Migrate(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
	return nil
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (postgres only)",
	Args:  cobra.NoArgs,
	RunE:  runMigrateDown,
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	steps, _ := cmd.Flags().GetInt("steps")

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	if l.cfg.Database.Driver != db.DriverPostgres {
		return fmt.Errorf("migrate down requires the postgres driver, got %q", l.cfg.Database.Driver)
	}
	if err := db.MigrateDown(l.cfg.Database.URL, steps); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
	return nil
}
