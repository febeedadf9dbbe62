package api

import (
	"fmt"
	"net/http"
	"time"

	"fjacquet/cashflow-csv/internal/aggregator"
	"fjacquet/cashflow-csv/internal/logging"
	"fjacquet/cashflow-csv/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// categorizeRequest is the inbound payload of POST /api/categorize.
type categorizeRequest struct {
	Transactions []models.Transaction `json:"transactions"`
}

// forecastRequest is the inbound payload of POST /api/forecast.
type forecastRequest struct {
	Transactions    []models.CategorizedTransaction `json:"transactions"`
	StartingBalance decimal.Decimal                 `json:"startingBalance"`
	Weeks           int                             `json:"weeks"`
	Anchor          models.Date                     `json:"anchor"`
}

// maxForecastWeeks bounds the requested window so a single request cannot
// allocate an arbitrary number of buckets. 260 weeks is five years.
const maxForecastWeeks = 260

func errorResponse(c *gin.Context, status int, message string, details string) {
	body := gin.H{"error": message}
	if details != "" {
		body["details"] = details
	}
	c.JSON(status, body)
}

// handleCategorize implements POST /api/categorize. The response always
// carries one categorized transaction per valid input; a remote-service
// failure is absorbed by the deterministic fallback and never reaches here.
func (s *Server) handleCategorize(c *gin.Context) {
	var req categorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid transactions data", err.Error())
		return
	}
	if req.Transactions == nil {
		errorResponse(c, http.StatusBadRequest, "Invalid transactions data", "transactions must be an array")
		return
	}
	if len(req.Transactions) == 0 {
		c.JSON(http.StatusOK, gin.H{"categorizedTransactions": []models.CategorizedTransaction{}})
		return
	}

	for _, tx := range req.Transactions {
		if err := tx.Validate(); err != nil {
			errorResponse(c, http.StatusBadRequest, "Invalid transactions data", err.Error())
			return
		}
	}

	categorized := s.categorizer.Categorize(c.Request.Context(), req.Transactions)
	if len(categorized) != len(req.Transactions) {
		// The categorizer contract guarantees one output per input; anything
		// else is an unexpected processing failure.
		errorResponse(c, http.StatusInternalServerError, "Failed to categorize transactions", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categorizedTransactions": categorized,
		"message":                 "Successfully categorized transactions",
	})
}

// handleForecast implements POST /api/forecast: a rolling forward-looking
// window of weekly buckets anchored to the current week.
func (s *Server) handleForecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid forecast request", err.Error())
		return
	}
	if req.Transactions == nil {
		errorResponse(c, http.StatusBadRequest, "Invalid forecast request", "transactions must be an array")
		return
	}

	weeks := req.Weeks
	if weeks == 0 {
		weeks = s.forecastWeeks
	}
	if weeks < 1 {
		errorResponse(c, http.StatusBadRequest, "Invalid forecast request", "weeks must be positive")
		return
	}
	if weeks > maxForecastWeeks {
		errorResponse(c, http.StatusBadRequest, "Invalid forecast request",
			fmt.Sprintf("weeks must be at most %d", maxForecastWeeks))
		return
	}

	anchor := req.Anchor
	if anchor.IsZero() {
		anchor = models.DateOf(time.Now())
	}

	report := aggregator.Forecast(req.Transactions, req.StartingBalance, anchor, weeks)
	c.JSON(http.StatusOK, report)
}

// handleSummary implements POST /api/summary: the unbounded weekly breakdown
// anchored at the earliest transaction.
func (s *Server) handleSummary(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid summary request", err.Error())
		return
	}
	if req.Transactions == nil {
		errorResponse(c, http.StatusBadRequest, "Invalid summary request", "transactions must be an array")
		return
	}

	report := aggregator.Breakdown(req.Transactions, req.StartingBalance)
	c.JSON(http.StatusOK, gin.H{
		"weeks":      report.Buckets,
		"summary":    report.Summary,
		"categories": aggregator.GroupByCategory(req.Transactions),
	})
}

// handleHealth implements GET /api/health.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger logs one line per request in the structured-logging style.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(
			logging.Field{Key: "method", Value: c.Request.Method},
			logging.Field{Key: "path", Value: c.Request.URL.Path},
			logging.Field{Key: "status", Value: c.Writer.Status()},
			logging.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()},
		).Info("Handled request")
	}
}
