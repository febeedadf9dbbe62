// Package api exposes the categorization and forecasting pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fjacquet/cashflow-csv/internal/categorizer"
	"fjacquet/cashflow-csv/internal/logging"

	"github.com/gin-gonic/gin"
)

// Server wires the HTTP routes to the categorizer and aggregator.
type Server struct {
	router        *gin.Engine
	categorizer   *categorizer.Categorizer
	forecastWeeks int
	logger        logging.Logger
}

// NewServer creates a Server with routes registered. forecastWeeks is the
// default window length when a forecast request does not specify one.
func NewServer(cat *categorizer.Categorizer, forecastWeeks int, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if forecastWeeks < 1 {
		forecastWeeks = 13
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	s := &Server{
		router:        router,
		categorizer:   cat,
		forecastWeeks: forecastWeeks,
		logger:        logger,
	}

	apiGroup := router.Group("/api")
	apiGroup.POST("/categorize", s.handleCategorize)
	apiGroup.POST("/forecast", s.handleForecast)
	apiGroup.POST("/summary", s.handleSummary)
	apiGroup.GET("/health", s.handleHealth)

	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
