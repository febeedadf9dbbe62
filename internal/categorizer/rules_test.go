package categorizer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/cashflow-csv/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(description string, amount string, direction models.Direction) models.Transaction {
	return models.Transaction{
		Date:        models.NewDate(2024, time.January, 1),
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Direction:   direction,
	}
}

func TestRuleSetApply(t *testing.T) {
	rules := DefaultRuleSet()

	tests := []struct {
		name       string
		tx         models.Transaction
		category   string
		confidence float64
	}{
		{
			name:       "rmpr is reimbursement",
			tx:         tx("RMPR-2024-001 expense", "50", models.DirectionOutflow),
			category:   models.CategoryReimbursements,
			confidence: 0.9,
		},
		{
			name:       "people center is payroll",
			tx:         tx("People Center biweekly", "12000", models.DirectionOutflow),
			category:   models.CategoryPayroll,
			confidence: 0.9,
		},
		{
			name:       "payroll keyword",
			tx:         tx("PAYROLL RUN 42", "9000", models.DirectionOutflow),
			category:   models.CategoryPayroll,
			confidence: 0.9,
		},
		{
			name:       "ramp is vendor payment",
			tx:         tx("Ramp card settlement", "300", models.DirectionOutflow),
			category:   models.CategoryVendorPayments,
			confidence: 0.9,
		},
		{
			name:       "oracle invoice",
			tx:         tx("Oracle Inv #123", "1200", models.DirectionOutflow),
			category:   models.CategoryVendorPayments,
			confidence: 0.8,
		},
		{
			name:       "carta is equity",
			tx:         tx("CARTA fund disbursement", "500000", models.DirectionInflow),
			category:   models.CategoryEquityFunding,
			confidence: 0.9,
		},
		{
			name:       "unmatched inflow is customer receipt",
			tx:         tx("Salary Deposit", "3500", models.DirectionInflow),
			category:   models.CategoryCustomer,
			confidence: 0.7,
		},
		{
			name:       "unmatched outflow is other",
			tx:         tx("Mystery charge", "10", models.DirectionOutflow),
			category:   models.CategoryOtherMisc,
			confidence: 0.5,
		},
		{
			name:       "zero inflow falls to other",
			tx:         tx("Zero value entry", "0", models.DirectionInflow),
			category:   models.CategoryOtherMisc,
			confidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, confidence := rules.Apply(tt.tx)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.confidence, confidence)
		})
	}
}

func TestRuleSetPriorityOrder(t *testing.T) {
	rules := DefaultRuleSet()

	// "ramp" is listed before "carta": earlier rule wins when both match.
	category, confidence := rules.Apply(tx("ramp payment via carta", "10", models.DirectionOutflow))
	assert.Equal(t, models.CategoryVendorPayments, category)
	assert.Equal(t, 0.9, confidence)

	// "payroll" beats "inv" even though both substrings appear.
	category, _ = rules.Apply(tx("payroll invoice", "10", models.DirectionOutflow))
	assert.Equal(t, models.CategoryPayroll, category)

	// keyword rules beat the inflow rule.
	category, _ = rules.Apply(tx("carta proceeds", "100", models.DirectionInflow))
	assert.Equal(t, models.CategoryEquityFunding, category)
}

func TestRuleSetCaseInsensitive(t *testing.T) {
	rules := DefaultRuleSet()

	for _, desc := range []string{"ORACLE", "oracle", "OrAcLe systems"} {
		category, _ := rules.Apply(tx(desc, "10", models.DirectionOutflow))
		assert.Equal(t, models.CategoryVendorPayments, category)
	}
}

func TestRuleSetAlwaysInVocabulary(t *testing.T) {
	rules := DefaultRuleSet()

	inputs := []models.Transaction{
		tx("rmpr", "1", models.DirectionOutflow),
		tx("random noise", "1", models.DirectionInflow),
		tx("", "0", models.DirectionOutflow),
	}

	for _, input := range inputs {
		category, confidence := rules.Apply(input)
		assert.True(t, rules.InVocabulary(category), "category %q not in vocabulary", category)
		assert.GreaterOrEqual(t, confidence, 0.0)
		assert.LessOrEqual(t, confidence, 1.0)
	}
}

func TestRuleSetValidate(t *testing.T) {
	assert.NoError(t, DefaultRuleSet().Validate())

	bad := DefaultRuleSet()
	bad.Keyword[0].Category = "Not A Category"
	assert.Error(t, bad.Validate())

	badConfidence := DefaultRuleSet()
	badConfidence.Default.Confidence = 1.5
	assert.Error(t, badConfidence.Validate())

	empty := &RuleSet{}
	assert.Error(t, empty.Validate())
}

func TestLoadRuleSet(t *testing.T) {
	content := `categories:
  - Reimbursements
  - Payroll
  - Vendor Payments
  - Equity or Funding Proceeds
  - Customer Receipts
  - Other / Misc
rules:
  - keywords: ["rmpr"]
    category: Reimbursements
    confidence: 0.9
inflow:
  types: ["ACH credit"]
  category: Customer Receipts
  confidence: 0.7
default:
  category: Other / Misc
  confidence: 0.5
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRuleSet(path)
	require.NoError(t, err)
	assert.Len(t, rules.Keyword, 1)
	assert.Equal(t, models.CategoryCustomer, rules.Inflow.Category)

	category, _ := rules.Apply(tx("rmpr refund", "10", models.DirectionOutflow))
	assert.Equal(t, models.CategoryReimbursements, category)
}

func TestLoadRuleSetErrors(t *testing.T) {
	_, err := LoadRuleSet(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [x\n"), 0o644))
	_, err = LoadRuleSet(path)
	assert.Error(t, err)
}
