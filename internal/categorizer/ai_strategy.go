package categorizer

import (
	"context"
	"fmt"

	"fjacquet/cashflow-csv/internal/logging"
	"fjacquet/cashflow-csv/internal/models"
)

// AIStrategy delegates categorization to an AIClient and validates the
// response against the closed vocabulary. Any violation fails the whole
// batch so the deterministic path can take over.
type AIStrategy struct {
	aiClient AIClient
	rules    *RuleSet
	logger   logging.Logger
}

// NewAIStrategy creates an AIStrategy. The rule set is used only to validate
// the response vocabulary; the client carries its own copy for prompting.
func NewAIStrategy(aiClient AIClient, rules *RuleSet, logger logging.Logger) *AIStrategy {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &AIStrategy{aiClient: aiClient, rules: rules, logger: logger}
}

// Name returns the strategy name for logging and debugging.
func (s *AIStrategy) Name() string {
	return "AI"
}

// Categorize classifies the batch through the AI client.
func (s *AIStrategy) Categorize(ctx context.Context, txs []models.Transaction) ([]models.CategorizedTransaction, error) {
	if s.aiClient == nil {
		return nil, fmt.Errorf("no AI client configured")
	}

	categorized, err := s.aiClient.Categorize(ctx, txs)
	if err != nil {
		return nil, err
	}
	if len(categorized) != len(txs) {
		return nil, fmt.Errorf("AI returned %d results for %d transactions", len(categorized), len(txs))
	}

	for i, tx := range categorized {
		if !s.rules.InVocabulary(tx.Category) {
			return nil, fmt.Errorf("AI returned category %q outside the vocabulary", tx.Category)
		}
		if tx.Confidence < 0 || tx.Confidence > 1 {
			return nil, fmt.Errorf("AI returned confidence %v outside [0,1]", tx.Confidence)
		}
		// Classification only ever adds fields.
		categorized[i].Transaction = txs[i]
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldCount, Value: len(categorized)},
	).Debug("Categorized batch with AI")

	return categorized, nil
}
