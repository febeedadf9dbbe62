// Package serve handles the HTTP API command.
package serve

import (
	"fmt"
	"os/signal"
	"syscall"

	"fjacquet/cashflow-csv/cmd/root"
	"fjacquet/cashflow-csv/internal/api"

	"github.com/spf13/cobra"
)

// Cmd represents the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the categorization and forecast API over HTTP",
	Long: `Start the HTTP API: POST /api/categorize, POST /api/forecast,
POST /api/summary and GET /api/health. The server shuts down gracefully
on SIGINT or SIGTERM.`,
	RunE: serveFunc,
}

func serveFunc(cmd *cobra.Command, args []string) error {
	rules := root.LoadRules()
	cat := root.NewCategorizer(rules)
	server := api.NewServer(cat, root.Cfg.Forecast.Weeks, root.Log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", root.Cfg.Server.Host, root.Cfg.Server.Port)
	return server.Run(ctx, addr)
}
