package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/application/usecase/monthlysummary"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.AddCommand(summaryRecomputeCmd)
	summaryCmd.AddCommand(summaryShowCmd)

	for _, c := range []*cobra.Command{summaryRecomputeCmd, summaryShowCmd} {
		c.Flags().String("month", "", "Month as YYYY-MM (default: current month)")
		c.Flags().String("currency", "", "Currency (MYR or INR)")
		_ = c.MarkFlagRequired("currency")
	}
	summaryRecomputeCmd.Flags().Bool("through-current", false, "Also recompute every later month up to the current one")
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Work with monthly balance snapshots",
}

var summaryRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute and store the snapshot of a month",
	Args:  cobra.NoArgs,
	RunE:  runSummaryRecompute,
}

func runSummaryRecompute(cmd *cobra.Command, _ []string) error {
	month, currency, err := summaryFlags(cmd)
	if err != nil {
		return err
	}
	throughCurrent, _ := cmd.Flags().GetBool("through-current")

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	start, err := resolveMonth(month, l)
	if err != nil {
		return err
	}
	until := start.Next()
	if current := valueobject.YearMonthOf(l.injector.Clock.Now()); throughCurrent && current.Start().After(start.Start()) {
		until = current.Next()
	}

	var summaries []*entity.MonthlySummary
	for ym := range valueobject.MonthsBetween(start.Start(), until.Start()) {
		out, err := l.injector.Recompute.Execute(cmd.Context(), monthlysummary.RecomputeInput{
			Month:    ym.String(),
			Currency: *currency,
		})
		if err != nil {
			return err
		}
		summaries = append(summaries, out.Summary)
	}

	return printSummaries(cmd.OutOrStdout(), summaries)
}

var summaryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the snapshot of a month, computing it when missing",
	Args:  cobra.NoArgs,
	RunE:  runSummaryShow,
}

func runSummaryShow(cmd *cobra.Command, _ []string) error {
	month, currency, err := summaryFlags(cmd)
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	ym, err := resolveMonth(month, l)
	if err != nil {
		return err
	}

	out, err := l.injector.GetSummary.Execute(cmd.Context(), monthlysummary.GetInput{
		Month:    ym.String(),
		Currency: currency,
	})
	if err != nil {
		return err
	}

	return printSummaries(cmd.OutOrStdout(), []*entity.MonthlySummary{out.Summary})
}

func summaryFlags(cmd *cobra.Command) (string, *entity.Currency, error) {
	month, _ := cmd.Flags().GetString("month")
	raw, _ := cmd.Flags().GetString("currency")

	currency, err := expense.ParseCurrency(raw)
	if err != nil {
		return "", nil, err
	}
	if currency == nil {
		return "", nil, fmt.Errorf("currency is required")
	}
	return month, currency, nil
}

func resolveMonth(month string, l *ledger) (valueobject.YearMonth, error) {
	if month == "" {
		return valueobject.YearMonthOf(l.injector.Clock.Now()), nil
	}
	return valueobject.ParseYearMonth(month)
}

func printSummaries(w io.Writer, summaries []*entity.MonthlySummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MONTH\tCURRENCY\tOPENING\tINCOME\tEXPENSE\tCC BILLED\tCC PAID\tXFER IN\tXFER OUT\tCLOSING\t")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Month, s.Currency,
			s.Opening.StringFixed(2), s.Income.StringFixed(2), s.ExpenseCash.StringFixed(2),
			s.CCBilled.StringFixed(2), s.CCSettlements.StringFixed(2),
			s.TransfersIn.StringFixed(2), s.TransfersOut.StringFixed(2), s.Closing.StringFixed(2),
		)
	}
	return tw.Flush()
}
