package main

import (
	"os"

	"fjacquet/cashflow-csv/cmd/categorize"
	"fjacquet/cashflow-csv/cmd/forecast"
	"fjacquet/cashflow-csv/cmd/root"
	"fjacquet/cashflow-csv/cmd/serve"
	"fjacquet/cashflow-csv/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(forecast.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
