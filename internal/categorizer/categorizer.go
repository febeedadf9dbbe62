// Package categorizer assigns business categories to normalized transactions.
// Two strategies are composed behind one entry point: delegated AI
// classification with the local ordered rule table as guaranteed fallback,
// so classification degrades but never fails.
package categorizer

import (
	"context"
	"time"

	"fjacquet/cashflow-csv/internal/logging"
	"fjacquet/cashflow-csv/internal/models"
)

// Categorizer composes the AI strategy with the deterministic rule strategy.
type Categorizer struct {
	ai      Strategy
	rules   *RuleStrategy
	timeout time.Duration
	logger  logging.Logger
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithAIClient enables delegated classification through the given client.
// Without it the categorizer is rule-only.
func WithAIClient(client AIClient, rules *RuleSet) Option {
	return func(c *Categorizer) {
		c.ai = NewAIStrategy(client, rules, c.logger)
	}
}

// WithTimeout bounds how long one delegated call may take before the batch
// falls through to the rules.
func WithTimeout(d time.Duration) Option {
	return func(c *Categorizer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a Categorizer over the given rule set.
func New(rules *RuleSet, logger logging.Logger, opts ...Option) *Categorizer {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	c := &Categorizer{
		rules:   NewRuleStrategy(rules, logger),
		timeout: 30 * time.Second,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categorize classifies the batch. The AI path is tried once, time-boxed;
// any failure falls through to the local rule table immediately. The result
// always carries exactly one category per input transaction.
func (c *Categorizer) Categorize(ctx context.Context, txs []models.Transaction) []models.CategorizedTransaction {
	if len(txs) == 0 {
		return []models.CategorizedTransaction{}
	}

	if c.ai != nil {
		aiCtx, cancel := context.WithTimeout(ctx, c.timeout)
		categorized, err := c.ai.Categorize(aiCtx, txs)
		cancel()
		if err == nil {
			return categorized
		}
		c.logger.WithError(err).WithFields(
			logging.Field{Key: logging.FieldStrategy, Value: c.ai.Name()},
			logging.Field{Key: logging.FieldCount, Value: len(txs)},
		).Warn("AI categorization failed, falling back to local rules")
	}

	categorized, _ := c.rules.Categorize(ctx, txs)
	return categorized
}
