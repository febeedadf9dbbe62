package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"fjacquet/cashflow-csv/internal/logging"
	"fjacquet/cashflow-csv/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements the AIClient interface against the Google Gemini
// API. One request is made per batch; there is no retry, the caller falls
// back to the deterministic path on any failure.
type GeminiClient struct {
	apiKey    string
	modelName string
	maxBatch  int
	rules     *RuleSet
	logger    logging.Logger

	mu     sync.Mutex
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a GeminiClient. The rule set supplies the ordered
// rule description and vocabulary embedded in every prompt. maxBatch bounds
// how many transactions a single request may carry.
func NewGeminiClient(apiKey, modelName string, maxBatch int, rules *RuleSet, logger logging.Logger) *GeminiClient {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	if maxBatch <= 0 {
		maxBatch = 50
	}
	return &GeminiClient{
		apiKey:    apiKey,
		modelName: modelName,
		maxBatch:  maxBatch,
		rules:     rules,
		logger:    logger,
	}
}

// ensureClient lazily initializes the underlying Gemini client.
func (c *GeminiClient) ensureClient(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = client
	c.model = client.GenerativeModel(c.modelName)
	return nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	c.model = nil
	return err
}

// geminiRow is one entry of the JSON array the model is asked to return.
type geminiRow struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Categorize sends the batch to Gemini and maps the response back onto the
// input transactions by position. Only category and confidence are taken
// from the model; the canonical transaction fields are never overwritten.
func (c *GeminiClient) Categorize(ctx context.Context, txs []models.Transaction) ([]models.CategorizedTransaction, error) {
	if len(txs) > c.maxBatch {
		return nil, fmt.Errorf("batch of %d exceeds AI limit of %d", len(txs), c.maxBatch)
	}

	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	prompt, err := c.buildPrompt(txs)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldOperation, Value: "gemini_categorization"},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
	).Debug("Sending categorization batch to Gemini")

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	rows, err := parseGeminiResponse(responseText)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(txs) {
		return nil, fmt.Errorf("gemini returned %d results for %d transactions", len(rows), len(txs))
	}

	out := make([]models.CategorizedTransaction, len(txs))
	for i, tx := range txs {
		out[i] = models.CategorizedTransaction{
			Transaction: tx,
			Category:    strings.TrimSpace(rows[i].Category),
			Confidence:  rows[i].Confidence,
		}
	}
	return out, nil
}

// buildPrompt renders the ordered rule description, the closed vocabulary
// and the serialized batch into a single instruction prompt.
func (c *GeminiClient) buildPrompt(txs []models.Transaction) (string, error) {
	payload, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize transactions: %w", err)
	}

	var rules strings.Builder
	n := 1
	for _, rule := range c.rules.Keyword {
		quoted := make([]string, len(rule.Keywords))
		for i, kw := range rule.Keywords {
			quoted[i] = fmt.Sprintf("%q", kw)
		}
		fmt.Fprintf(&rules, "%d) If description contains %s => category %q\n",
			n, strings.Join(quoted, " OR "), rule.Category)
		n++
	}
	if len(c.rules.Inflow.Types) > 0 {
		quoted := make([]string, len(c.rules.Inflow.Types))
		for i, txType := range c.rules.Inflow.Types {
			quoted[i] = fmt.Sprintf("%q", txType)
		}
		fmt.Fprintf(&rules, "%d) If transaction type contains %s, or the direction is \"inflow\", and amount > 0 => category %q\n",
			n, strings.Join(quoted, " OR "), c.rules.Inflow.Category)
	} else {
		fmt.Fprintf(&rules, "%d) If the direction is \"inflow\" and amount > 0 => category %q\n",
			n, c.rules.Inflow.Category)
	}
	fmt.Fprintf(&rules, "%d) Otherwise => category %q\n", n+1, c.rules.Default.Category)

	var vocab strings.Builder
	for _, category := range c.rules.Categories {
		fmt.Fprintf(&vocab, "- %s\n", category)
	}

	prompt := fmt.Sprintf(`You are a financial analyst AI. Categorize these business transactions using the following EXACT rules.

Apply the rules in strict priority order with case-insensitive substring matching:
%s
Available categories (use EXACTLY these names):
%s
Transactions to analyze:
%s

Return ONLY a JSON array with one object per transaction, in the same order, each shaped as:
{"category": "one of the exact categories above", "confidence": number_between_0_and_1}

Set confidence to 0.9 or higher for rule-based matches, 0.7 or higher for clear matches, 0.5 or higher otherwise. No text outside the JSON array.`,
		rules.String(), vocab.String(), payload)

	return prompt, nil
}

// parseGeminiResponse extracts the JSON array from the model output,
// tolerating markdown code fences around it.
func parseGeminiResponse(text string) ([]geminiRow, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var rows []geminiRow
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, fmt.Errorf("malformed gemini response: %w", err)
	}
	return rows, nil
}
