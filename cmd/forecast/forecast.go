// Package forecast handles the rolling weekly forecast command.
package forecast

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"fjacquet/cashflow-csv/cmd/root"
	"fjacquet/cashflow-csv/internal/aggregator"
	"fjacquet/cashflow-csv/internal/csvio"
	"fjacquet/cashflow-csv/internal/models"
	"fjacquet/cashflow-csv/internal/normalizer"

	"github.com/spf13/cobra"
)

// Cmd represents the forecast command.
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Produce a rolling weekly cash-flow forecast",
	Long: `Read a bank-transaction CSV, categorize it, and print a rolling
forward-looking forecast of weekly buckets anchored to the current week,
with per-week totals and a running balance.`,
	RunE: forecastFunc,
}

func init() {
	Cmd.Flags().Float64VarP(&root.SharedFlags.StartingBalance, "starting-balance", "b", 0, "Starting cash balance")
	Cmd.Flags().IntVarP(&root.SharedFlags.Weeks, "weeks", "w", 0, "Number of forecast weeks (default from config, 13)")
}

func forecastFunc(cmd *cobra.Command, args []string) error {
	categorized, err := loadCategorized(cmd)
	if err != nil {
		return err
	}

	weeks := root.SharedFlags.Weeks
	if weeks == 0 {
		weeks = root.Cfg.Forecast.Weeks
	}

	balance := root.ResolveStartingBalance(cmd)
	report := aggregator.Forecast(categorized, balance, models.DateOf(time.Now()), weeks)

	return printReport(report)
}

func loadCategorized(cmd *cobra.Command) ([]models.CategorizedTransaction, error) {
	if root.SharedFlags.Input == "" {
		return nil, fmt.Errorf("--input is required")
	}

	rows, err := csvio.ReadRows(root.SharedFlags.Input, root.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	norm := normalizer.New(root.Log, normalizer.WithDropBadDates(root.Cfg.Normalizer.DropBadDates))
	result := norm.Normalize(rows)

	rules := root.LoadRules()
	cat := root.NewCategorizer(rules)
	return cat.Categorize(cmd.Context(), result.Transactions), nil
}

func printReport(report aggregator.Report) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WEEK\tINFLOW\tOUTFLOW\tNET\tBALANCE")
	for _, bucket := range report.Buckets {
		fmt.Fprintf(w, "%s - %s\t%s\t%s\t%s\t%s\n",
			bucket.WeekStart, bucket.WeekEnd,
			bucket.TotalInflow, bucket.TotalOutflow, bucket.NetFlow, bucket.RunningBalance)
	}
	fmt.Fprintf(w, "TOTAL\t%s\t%s\t%s\t\n",
		report.Summary.TotalInflow, report.Summary.TotalOutflow, report.Summary.NetFlow)
	return w.Flush()
}
