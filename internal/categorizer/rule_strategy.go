package categorizer

import (
	"context"

	"fjacquet/cashflow-csv/internal/logging"
	"fjacquet/cashflow-csv/internal/models"
)

// RuleStrategy applies the ordered deterministic rule table locally. It is
// the guaranteed fallback: it never returns an error.
type RuleStrategy struct {
	rules  *RuleSet
	logger logging.Logger
}

// NewRuleStrategy creates a RuleStrategy over the given rule set.
func NewRuleStrategy(rules *RuleSet, logger logging.Logger) *RuleStrategy {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RuleStrategy{rules: rules, logger: logger}
}

// Name returns the strategy name for logging and debugging.
func (s *RuleStrategy) Name() string {
	return "Rules"
}

// Categorize classifies every transaction by first-match-wins rule order.
func (s *RuleStrategy) Categorize(_ context.Context, txs []models.Transaction) ([]models.CategorizedTransaction, error) {
	out := make([]models.CategorizedTransaction, len(txs))
	for i, tx := range txs {
		category, confidence := s.rules.Apply(tx)
		out[i] = models.CategorizedTransaction{
			Transaction: tx,
			Category:    category,
			Confidence:  confidence,
		}
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldCount, Value: len(out)},
	).Debug("Categorized batch with local rules")

	return out, nil
}
