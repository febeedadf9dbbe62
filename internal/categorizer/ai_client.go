package categorizer

import (
	"context"

	"fjacquet/cashflow-csv/internal/models"
)

// AIClient defines the interface for AI-based categorization services.
// This abstraction keeps the core categorization logic testable without
// external API calls and leaves room to swap AI providers.
type AIClient interface {
	// Categorize classifies a batch of transactions, returning one result per
	// input in input order, or an error if the call or its response failed.
	Categorize(ctx context.Context, txs []models.Transaction) ([]models.CategorizedTransaction, error)
}
