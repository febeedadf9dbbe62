// Package summary handles the unbounded weekly breakdown command.
package summary

import (
	"fmt"
	"os"
	"text/tabwriter"

	"fjacquet/cashflow-csv/cmd/root"
	"fjacquet/cashflow-csv/internal/aggregator"
	"fjacquet/cashflow-csv/internal/csvio"
	"fjacquet/cashflow-csv/internal/normalizer"

	"github.com/spf13/cobra"
)

// Cmd represents the summary command.
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the weekly cash-flow breakdown and category totals",
	Long: `Read a bank-transaction CSV, categorize it, and print the weekly
breakdown from the earliest transaction's week onward, followed by the
per-category totals.`,
	RunE: summaryFunc,
}

func init() {
	Cmd.Flags().Float64VarP(&root.SharedFlags.StartingBalance, "starting-balance", "b", 0, "Starting cash balance")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}

	rows, err := csvio.ReadRows(root.SharedFlags.Input, root.Log)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	norm := normalizer.New(root.Log, normalizer.WithDropBadDates(root.Cfg.Normalizer.DropBadDates))
	result := norm.Normalize(rows)

	rules := root.LoadRules()
	cat := root.NewCategorizer(rules)
	categorized := cat.Categorize(cmd.Context(), result.Transactions)

	balance := root.ResolveStartingBalance(cmd)
	report := aggregator.Breakdown(categorized, balance)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WEEK\tINFLOW\tOUTFLOW\tNET\tBALANCE")
	for _, bucket := range report.Buckets {
		fmt.Fprintf(w, "%s - %s\t%s\t%s\t%s\t%s\n",
			bucket.WeekStart, bucket.WeekEnd,
			bucket.TotalInflow, bucket.TotalOutflow, bucket.NetFlow, bucket.RunningBalance)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CATEGORY\tTOTAL\tCOUNT\tSHARE")
	for _, group := range aggregator.GroupByCategory(categorized) {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f%%\n", group.Name, group.Total, group.Count, group.Percentage)
	}
	return w.Flush()
}
