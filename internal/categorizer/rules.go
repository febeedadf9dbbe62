package categorizer

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/cashflow-csv/internal/models"

	"gopkg.in/yaml.v3"
)

// KeywordRule maps description substrings to a category. Matching is
// case-insensitive; rules are applied in declaration order and the first
// match wins.
type KeywordRule struct {
	Keywords   []string `yaml:"keywords"`
	Category   string   `yaml:"category"`
	Confidence float64  `yaml:"confidence"`
}

// InflowRule is the positional rule applied after every keyword rule: an
// inflow with a positive amount is treated as customer revenue. Types lists
// the bank transaction-type strings that signal the same thing; they are
// surfaced to the AI prompt, the local rule keys on direction alone.
type InflowRule struct {
	Types      []string `yaml:"types"`
	Category   string   `yaml:"category"`
	Confidence float64  `yaml:"confidence"`
}

// DefaultRule is the terminal catch-all.
type DefaultRule struct {
	Category   string  `yaml:"category"`
	Confidence float64 `yaml:"confidence"`
}

// RuleSet is the full ordered rule table plus the closed category vocabulary.
// Both classification strategies are built from the same RuleSet so a caller
// sees one category set no matter which path served the request.
type RuleSet struct {
	Categories []string      `yaml:"categories"`
	Keyword    []KeywordRule `yaml:"rules"`
	Inflow     InflowRule    `yaml:"inflow"`
	Default    DefaultRule   `yaml:"default"`
}

// DefaultRuleSet returns the built-in rule table and vocabulary.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Categories: models.DefaultCategories,
		Keyword: []KeywordRule{
			{Keywords: []string{"rmpr"}, Category: models.CategoryReimbursements, Confidence: 0.9},
			{Keywords: []string{"people center", "payroll"}, Category: models.CategoryPayroll, Confidence: 0.9},
			{Keywords: []string{"ramp"}, Category: models.CategoryVendorPayments, Confidence: 0.9},
			{Keywords: []string{"oracle", "inv", "paying bill"}, Category: models.CategoryVendorPayments, Confidence: 0.8},
			{Keywords: []string{"carta"}, Category: models.CategoryEquityFunding, Confidence: 0.9},
		},
		Inflow: InflowRule{
			Types:      []string{"ACH credit", "Incoming wire transfer"},
			Category:   models.CategoryCustomer,
			Confidence: 0.7,
		},
		Default: DefaultRule{
			Category:   models.CategoryOtherMisc,
			Confidence: 0.5,
		},
	}
}

// LoadRuleSet reads a rule table from a YAML file. The file replaces the
// built-in table wholesale; deployments that only want to swap the vocabulary
// still list every rule.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read rules file: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("could not parse rules file %s: %w", path, err)
	}

	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}

	return &rs, nil
}

// Validate checks that every rule emits a category from the vocabulary with a
// confidence in [0,1].
func (rs *RuleSet) Validate() error {
	if len(rs.Categories) == 0 {
		return fmt.Errorf("no categories defined")
	}

	check := func(category string, confidence float64) error {
		if !rs.InVocabulary(category) {
			return fmt.Errorf("category %q not in vocabulary", category)
		}
		if confidence < 0 || confidence > 1 {
			return fmt.Errorf("confidence %v outside [0,1]", confidence)
		}
		return nil
	}

	for _, rule := range rs.Keyword {
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("keyword rule for %q has no keywords", rule.Category)
		}
		if err := check(rule.Category, rule.Confidence); err != nil {
			return err
		}
	}
	if err := check(rs.Inflow.Category, rs.Inflow.Confidence); err != nil {
		return err
	}
	return check(rs.Default.Category, rs.Default.Confidence)
}

// InVocabulary reports whether a category belongs to the closed set.
func (rs *RuleSet) InVocabulary(category string) bool {
	for _, c := range rs.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Apply runs the ordered rule table against one transaction. It always
// resolves: the terminal default guarantees every transaction a category.
func (rs *RuleSet) Apply(tx models.Transaction) (string, float64) {
	desc := strings.ToLower(tx.Description)

	for _, rule := range rs.Keyword {
		for _, keyword := range rule.Keywords {
			if strings.Contains(desc, strings.ToLower(keyword)) {
				return rule.Category, rule.Confidence
			}
		}
	}

	if tx.Direction == models.DirectionInflow && tx.Amount.IsPositive() {
		return rs.Inflow.Category, rs.Inflow.Confidence
	}

	return rs.Default.Category, rs.Default.Confidence
}
