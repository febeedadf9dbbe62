// Package root contains the root command for the application.
package root

import (
	"time"

	"fjacquet/cashflow-csv/internal/categorizer"
	"fjacquet/cashflow-csv/internal/config"
	"fjacquet/cashflow-csv/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by multiple commands.
type CommonFlags struct {
	Input           string
	Output          string
	StartingBalance float64
	Weeks           int
}

var (
	// Cfg is the loaded application configuration, available to subcommands
	// after PersistentPreRun.
	Cfg *config.Config

	// Log is the shared logger instance for commands.
	Log = logging.GetLogger()

	// SharedFlags holds flag values common to the subcommands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "cashflow-csv",
		Short: "Categorize bank-transaction CSVs and forecast weekly cash flow.",
		Long: `cashflow-csv normalizes bank-transaction CSV exports, assigns each
transaction a business category (AI-assisted with a deterministic rule
fallback), and produces weekly cash-flow breakdowns and 13-week forecasts.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to cashflow-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.WithError(err).Fatal("Failed to load configuration")
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			logging.SetLogger(Log)
		},
	}
)

// Init initializes the root command and all persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}

// LoadRules returns the configured rule set: the rules file when one is
// configured, the built-in table otherwise.
func LoadRules() *categorizer.RuleSet {
	if Cfg != nil && Cfg.Categorization.RulesFile != "" {
		rules, err := categorizer.LoadRuleSet(Cfg.Categorization.RulesFile)
		if err != nil {
			Log.WithError(err).Warn("Failed to load rules file, using built-in rules")
			return categorizer.DefaultRuleSet()
		}
		return rules
	}
	return categorizer.DefaultRuleSet()
}

// ResolveStartingBalance returns the --starting-balance flag value when it was
// set on the command line, otherwise the configured forecast.starting_balance.
func ResolveStartingBalance(cmd *cobra.Command) decimal.Decimal {
	if cmd.Flags().Changed("starting-balance") || Cfg == nil {
		return decimal.NewFromFloat(SharedFlags.StartingBalance)
	}
	return decimal.NewFromFloat(Cfg.Forecast.StartingBalance)
}

// NewCategorizer builds the configured categorizer: rule-only when AI is
// disabled or no API key is present, AI with rule fallback otherwise.
func NewCategorizer(rules *categorizer.RuleSet) *categorizer.Categorizer {
	opts := []categorizer.Option{}
	if Cfg != nil && Cfg.AI.Enabled && Cfg.AI.APIKey != "" {
		client := categorizer.NewGeminiClient(Cfg.AI.APIKey, Cfg.AI.Model, Cfg.AI.MaxBatchSize, rules, Log)
		opts = append(opts,
			categorizer.WithAIClient(client, rules),
			categorizer.WithTimeout(time.Duration(Cfg.AI.TimeoutSeconds)*time.Second),
		)
	} else {
		Log.Debug("AI categorization disabled, using local rules only")
	}
	return categorizer.New(rules, Log, opts...)
}
