package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fjacquet/cashflow-csv/internal/categorizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	// Rule-only categorizer: handler tests must not depend on a remote service.
	return NewServer(categorizer.New(nil, nil), 13, nil)
}

func doRequest(t *testing.T, s *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := doRequest(t, newTestServer(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCategorizeMissingTransactions(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "not JSON", body: "not json at all"},
		{name: "missing field", body: `{}`},
		{name: "wrong type", body: `{"transactions": "nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, newTestServer(), http.MethodPost, "/api/categorize", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestCategorizeEmptyBatch(t *testing.T) {
	w := doRequest(t, newTestServer(), http.MethodPost, "/api/categorize", `{"transactions": []}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CategorizedTransactions []json.RawMessage `json:"categorizedTransactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.CategorizedTransactions)
	assert.Empty(t, resp.CategorizedTransactions)
}

func TestCategorizeBatch(t *testing.T) {
	body := `{"transactions": [
		{"date": "2025-08-07", "description": "Oracle Inv #123", "amount": 1200, "direction": "outflow"},
		{"date": "2024-01-01", "description": "Salary Deposit", "amount": 3500, "direction": "inflow"}
	]}`

	w := doRequest(t, newTestServer(), http.MethodPost, "/api/categorize", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CategorizedTransactions []struct {
			Description string  `json:"description"`
			Category    string  `json:"category"`
			Confidence  float64 `json:"confidence"`
		} `json:"categorizedTransactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.CategorizedTransactions, 2)

	assert.Equal(t, "Vendor Payments", resp.CategorizedTransactions[0].Category)
	assert.Equal(t, 0.8, resp.CategorizedTransactions[0].Confidence)
	assert.Equal(t, "Customer Receipts", resp.CategorizedTransactions[1].Category)
	assert.Equal(t, 0.7, resp.CategorizedTransactions[1].Confidence)
}

func TestCategorizeInvalidTransaction(t *testing.T) {
	body := `{"transactions": [
		{"date": "2025-08-07", "description": "x", "amount": -5, "direction": "outflow"}
	]}`

	w := doRequest(t, newTestServer(), http.MethodPost, "/api/categorize", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForecastRunningBalance(t *testing.T) {
	// Starting balance 1000, single outflow of 200 in week 3 of the window.
	body := `{
		"transactions": [
			{"date": "2024-03-18", "description": "rent", "amount": 200, "direction": "outflow", "category": "Vendor Payments", "confidence": 0.8}
		],
		"startingBalance": 1000,
		"weeks": 13,
		"anchor": "2024-03-03"
	}`

	w := doRequest(t, newTestServer(), http.MethodPost, "/api/forecast", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Weeks []struct {
			WeekStart      string `json:"weekStart"`
			RunningBalance string `json:"runningBalance"`
		} `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Weeks, 13)

	assert.Equal(t, "2024-03-03", resp.Weeks[0].WeekStart)
	assert.Equal(t, "1000", resp.Weeks[0].RunningBalance)
	assert.Equal(t, "1000", resp.Weeks[1].RunningBalance)
	assert.Equal(t, "800", resp.Weeks[2].RunningBalance)
	assert.Equal(t, "800", resp.Weeks[12].RunningBalance)
}

func TestForecastMissingTransactions(t *testing.T) {
	w := doRequest(t, newTestServer(), http.MethodPost, "/api/forecast", `{"startingBalance": 100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForecastWeeksBounds(t *testing.T) {
	tests := []struct {
		name  string
		weeks string
		code  int
	}{
		{name: "negative", weeks: "-1", code: http.StatusBadRequest},
		{name: "huge window", weeks: "1000000000", code: http.StatusBadRequest},
		{name: "at the cap", weeks: "260", code: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"transactions": [], "weeks": ` + tt.weeks + `, "anchor": "2024-03-03"}`
			w := doRequest(t, newTestServer(), http.MethodPost, "/api/forecast", body)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestSummaryEndpoint(t *testing.T) {
	body := `{
		"transactions": [
			{"date": "2024-01-01", "description": "deposit", "amount": 3500, "direction": "inflow", "category": "Customer Receipts", "confidence": 0.7},
			{"date": "2024-01-05", "description": "deposit", "amount": 800, "direction": "inflow", "category": "Customer Receipts", "confidence": 0.7}
		],
		"startingBalance": 0
	}`

	w := doRequest(t, newTestServer(), http.MethodPost, "/api/summary", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Weeks []struct {
			TotalInflow string `json:"totalInflow"`
			NetFlow     string `json:"netFlow"`
		} `json:"weeks"`
		Summary struct {
			TransactionCount int `json:"transactionCount"`
		} `json:"summary"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Weeks, 1)
	assert.Equal(t, "4300", resp.Weeks[0].TotalInflow)
	assert.Equal(t, 2, resp.Summary.TransactionCount)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "Customer Receipts", resp.Categories[0].Name)
}
