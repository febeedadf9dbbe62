// Package categorize handles the CSV categorization command.
package categorize

import (
	"fmt"
	"os"
	"text/tabwriter"

	"fjacquet/cashflow-csv/cmd/root"
	"fjacquet/cashflow-csv/internal/csvio"
	"fjacquet/cashflow-csv/internal/logging"
	"fjacquet/cashflow-csv/internal/normalizer"

	"github.com/spf13/cobra"
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Normalize a bank CSV and categorize every transaction",
	Long: `Read a bank-transaction CSV export, normalize the rows into canonical
transactions and assign each one a business category. Writes a categorized
CSV when --output is given, otherwise prints a table.`,
	RunE: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}

	rows, err := csvio.ReadRows(root.SharedFlags.Input, root.Log)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	norm := normalizer.New(root.Log, normalizer.WithDropBadDates(root.Cfg.Normalizer.DropBadDates))
	result := norm.Normalize(rows)
	if result.Dropped > 0 {
		root.Log.WithField(logging.FieldDropped, result.Dropped).Warn("Some rows could not be parsed and were dropped")
	}
	if len(result.Transactions) == 0 {
		root.Log.Warn("No valid transactions found in input")
	}

	rules := root.LoadRules()
	cat := root.NewCategorizer(rules)
	categorized := cat.Categorize(cmd.Context(), result.Transactions)

	if root.SharedFlags.Output != "" {
		return csvio.WriteTransactions(root.SharedFlags.Output, categorized, root.Log)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tDIRECTION\tCATEGORY\tCONFIDENCE")
	for _, tx := range categorized {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			tx.Date, tx.Description, tx.Amount, tx.Direction, tx.Category, tx.Confidence)
	}
	return w.Flush()
}
