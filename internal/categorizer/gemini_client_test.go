package categorizer

import (
	"context"
	"strings"
	"testing"

	"fjacquet/cashflow-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeminiResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "plain JSON array",
			input: `[{"category": "Payroll", "confidence": 0.9}]`,
			want:  1,
		},
		{
			name: "fenced JSON",
			input: "```json\n[{\"category\": \"Payroll\", \"confidence\": 0.9}, {\"category\": \"Other / Misc\", \"confidence\": 0.5}]\n```",
			want: 2,
		},
		{
			name: "bare fence",
			input: "```\n[{\"category\": \"Vendor Payments\", \"confidence\": 0.8}]\n```",
			want: 1,
		},
		{
			name:    "prose instead of JSON",
			input:   "I cannot categorize these transactions.",
			wantErr: true,
		},
		{
			name:    "JSON object instead of array",
			input:   `{"category": "Payroll"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := parseGeminiResponse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestGeminiClientRejectsOversizedBatch(t *testing.T) {
	client := NewGeminiClient("key", "gemini-2.0-flash", 2, nil, nil)

	txs := []models.Transaction{
		tx("a", "1", models.DirectionOutflow),
		tx("b", "2", models.DirectionOutflow),
		tx("c", "3", models.DirectionOutflow),
	}

	_, err := client.Categorize(context.Background(), txs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds AI limit")
}

func TestGeminiClientRequiresAPIKey(t *testing.T) {
	client := NewGeminiClient("", "gemini-2.0-flash", 50, nil, nil)

	_, err := client.Categorize(context.Background(), []models.Transaction{
		tx("a", "1", models.DirectionOutflow),
	})
	assert.Error(t, err)
}

func TestBuildPromptContainsRulesAndVocabulary(t *testing.T) {
	client := NewGeminiClient("key", "gemini-2.0-flash", 50, nil, nil)

	prompt, err := client.buildPrompt([]models.Transaction{
		tx("Oracle Inv #123", "1200", models.DirectionOutflow),
	})
	require.NoError(t, err)

	for _, category := range models.DefaultCategories {
		assert.Contains(t, prompt, category)
	}
	assert.Contains(t, prompt, `"rmpr"`)
	assert.Contains(t, prompt, "Oracle Inv #123")
	assert.True(t, strings.Contains(prompt, "JSON array"))
}

func TestBuildPromptWithoutInflowTypes(t *testing.T) {
	// A rules file may omit inflow.types entirely; the prompt then describes
	// the inflow rule by direction alone instead of crashing.
	rules := DefaultRuleSet()
	rules.Inflow.Types = nil
	require.NoError(t, rules.Validate())

	client := NewGeminiClient("key", "gemini-2.0-flash", 50, rules, nil)

	prompt, err := client.buildPrompt([]models.Transaction{
		tx("Salary Deposit", "3500", models.DirectionInflow),
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, models.CategoryCustomer)
	assert.NotContains(t, prompt, "transaction type contains")
}
