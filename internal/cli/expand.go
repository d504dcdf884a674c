package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/recurrence"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().String("id", "", "Recurring expense id")
	expandCmd.Flags().String("from", "", "First day, YYYY-MM-DD")
	expandCmd.Flags().String("to", "", "Last day (inclusive), YYYY-MM-DD")
	_ = expandCmd.MarkFlagRequired("id")
	_ = expandCmd.MarkFlagRequired("from")
	_ = expandCmd.MarkFlagRequired("to")
}

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Preview the occurrences of a recurring expense",
	Long: `Expand a recurring expense over an inclusive date range and print the
occurrences it projects, exactly as ledger queries would see them.`,
	Args: cobra.NoArgs,
	RunE: runExpand,
}

func runExpand(cmd *cobra.Command, _ []string) error {
	rawID, _ := cmd.Flags().GetString("id")
	rawFrom, _ := cmd.Flags().GetString("from")
	rawTo, _ := cmd.Flags().GetString("to")

	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", rawID, err)
	}
	from, err := expense.ParseDate("from", rawFrom)
	if err != nil {
		return err
	}
	to, err := expense.ParseDate("to", rawTo)
	if err != nil {
		return err
	}
	if from == nil || to == nil {
		return fmt.Errorf("from and to are required")
	}
	window := valueobject.Window{Start: *from, End: to.AddDate(0, 0, 1)}
	if !window.Start.Before(window.End) {
		return fmt.Errorf("from must not be after to")
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	def, err := l.injector.ExpenseRepo.FindByID(cmd.Context(), id)
	if errors.Is(err, domainerror.ErrExpenseNotFound) {
		return fmt.Errorf("expense %s not found", id)
	}
	if err != nil {
		return err
	}
	if !def.IsRecurring {
		return fmt.Errorf("expense %s is not recurring", id)
	}

	occurrences := recurrence.Expand(def, window)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tAMOUNT\tCURRENCY")
	for _, occ := range occurrences {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			occ.Key(), occ.Date.Format(expense.DateLayout), occ.Title, occ.Amount.StringFixed(2), occ.Currency)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d occurrence(s)\n", len(occurrences))
	return nil
}
