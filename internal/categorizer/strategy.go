package categorizer

import (
	"context"

	"fjacquet/cashflow-csv/internal/models"
)

// Strategy defines one approach to categorizing a batch of transactions.
// Implementations return the input transactions augmented with category and
// confidence, in input order, without mutating the underlying records.
type Strategy interface {
	// Name returns the strategy name for logging and debugging.
	Name() string

	// Categorize classifies the whole batch or fails as a whole. A strategy
	// never returns a partially categorized batch.
	Categorize(ctx context.Context, txs []models.Transaction) ([]models.CategorizedTransaction, error)
}
