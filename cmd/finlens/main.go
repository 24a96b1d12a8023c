// finlens — financial statement aggregation and value-creation analytics.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/finlens/api"
	"github.com/seenimoa/finlens/internal/analysis/roic"
	"github.com/seenimoa/finlens/internal/config"
	"github.com/seenimoa/finlens/internal/engine"
	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/llm"
	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/internal/providers"
	"github.com/seenimoa/finlens/internal/report"
	"github.com/seenimoa/finlens/pkg/models"
	"github.com/seenimoa/finlens/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finlens",
	Short: "finlens — multi-provider financial statement analytics",
	Long: `finlens aggregates financial statements from multiple data providers,
normalizes them into a canonical multi-year model, and derives
value-creation metrics (NOPAT, invested capital, ROIC, cost of capital)
with an optional LLM-written narrative report.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// buildEngine wires the provider registry, narrative assembler and
// engine from the loaded config.
func buildEngine() (*engine.Engine, *provider.Registry, error) {
	registry := provider.NewRegistry()
	if err := providers.RegisterAll(cfg, registry); err != nil {
		return nil, nil, err
	}

	assembler := report.NewAssembler(llm.NewRouterFromConfig(cfg),
		report.WithChatOptions(llm.ChatOptions{
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}))

	retry := infra.DefaultRetryPolicy()
	if cfg.Analysis.MaxRetries > 0 {
		retry.MaxAttempts = cfg.Analysis.MaxRetries
	}

	opts := []engine.Option{
		engine.WithAssembler(assembler),
		engine.WithRetryPolicy(retry),
		engine.WithAssumptions(roic.Assumptions{
			RiskFreeRate:      cfg.Analysis.RiskFreeRate,
			EquityRiskPremium: cfg.Analysis.EquityRiskPremium,
			FallbackTaxRate:   cfg.Analysis.FallbackTaxRate,
		}),
	}
	if cfg.Analysis.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.Analysis.CacheTTLSeconds) * time.Second
		opts = append(opts, engine.WithCache(infra.NewResponseCache(ttl, 10*time.Minute)))
	}

	eng := engine.New(registry, opts...)
	return eng, registry, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finlens %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Run a full analysis for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := buildEngine()
		if err != nil {
			return err
		}

		ticker := utils.NormalizeTicker(args[0])
		asJSON, _ := cmd.Flags().GetBool("json")

		result, err := eng.AnalyzeWithProgress(context.Background(), ticker, func(stage, detail string) {
			if !asJSON {
				fmt.Printf("  [%s] %s\n", stage, detail)
			}
		})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		printSummary(result)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "print the full result as JSON")
}

func printSummary(result *models.AnalysisResult) {
	m := result.Metrics
	fmt.Printf("\n%s (%s) — FY %s\n", result.History.CompanyName, result.Ticker, m.FiscalYear)
	fmt.Printf("  NOPAT:              %.0f\n", m.NOPAT)
	fmt.Printf("  Invested capital:   %.0f (operating) / %.0f (financing)\n",
		m.InvestedCapitalOperating, m.InvestedCapitalFinancing)
	printMetric("ROIC", m.ROIC, true)
	printMetric("Profit margin", m.ProfitMargin, true)
	printMetric("Capital turnover", m.CapitalTurnover, false)
	printMetric("Cost of equity", m.CostOfEquity, true)
	printMetric("WACC", m.WACC, true)
	printMetric("Value spread", m.ValueSpread, true)
	fmt.Printf("  Verdict:            %s\n", m.Verdict)
	fmt.Printf("  Trend:              %s over %d year(s)\n", m.TrendDirection, len(m.Trend))

	for _, w := range m.Warnings {
		fmt.Printf("  ! %s: %s\n", w.Code, w.Message)
	}

	if result.Narrative != nil {
		fmt.Printf("\n%s\n", result.Narrative.Summary)
		fmt.Printf("Assessment: %s (confidence %s)\n", result.Narrative.Assessment, result.Narrative.Confidence)
	}
}

func printMetric(name string, m models.Metric, pct bool) {
	pad := 20 - len(name)
	if pad < 1 {
		pad = 1
	}
	if !m.Defined {
		fmt.Printf("  %s:%*sundefined (%s)\n", name, pad, " ", m.Reason)
		return
	}
	if pct {
		fmt.Printf("  %s:%*s%.1f%%\n", name, pad, " ", m.Value*100)
		return
	}
	fmt.Printf("  %s:%*s%.2fx\n", name, pad, " ", m.Value)
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, registry, err := buildEngine()
		if err != nil {
			return err
		}

		srv := api.NewServer(cfg, eng, registry)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("finlens API listening on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configured API keys and registered providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("API keys:")
		for _, ks := range config.CheckAPIKeys(cfg) {
			mark := "✗"
			detail := "not set"
			if ks.IsSet {
				mark = "✓"
				detail = fmt.Sprintf("%s (from %s)", ks.Masked, ks.Source)
			}
			fmt.Printf("  %s %-24s %s\n", mark, ks.Name, detail)
		}

		registry := provider.NewRegistry()
		if err := providers.RegisterAll(cfg, registry); err != nil {
			fmt.Printf("\nProviders: %v\n", err)
			return nil
		}

		fmt.Println("\nProviders:")
		for _, info := range registry.List() {
			fmt.Printf("  %-16s %d model(s) — %s\n", info.Name, len(info.Models), info.Description)
		}
		return nil
	},
}
