// Package engine orchestrates one analysis request end to end: cached,
// retried, concurrent statement fetches through the provider registry,
// normalization into the canonical history, metric derivation, and the
// optional narrative. The pipeline is one-shot; no state survives a
// request except the response cache.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/seenimoa/finlens/internal/analysis/roic"
	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/normalize"
	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/internal/report"
	"github.com/seenimoa/finlens/pkg/models"
	"github.com/seenimoa/finlens/pkg/utils"
)

// DefaultCacheTTL is how long fetched provider payloads stay valid.
// Statement data changes at most daily; an hour is comfortably fresh.
const DefaultCacheTTL = time.Hour

// quoteCacheTTL bounds how stale a served price may be. Quotes move
// intraday, so they bypass the statement TTL.
const quoteCacheTTL = time.Minute

// requestTimeout bounds one whole analysis so stuck optional fetches
// cannot hold a request open indefinitely.
const requestTimeout = 2 * time.Minute

// ProgressFunc receives pipeline stage updates for streaming to clients.
type ProgressFunc func(stage, detail string)

// Engine wires the registry, cache, retry policy, analytics assumptions
// and the narrative assembler into the Analyze pipeline.
type Engine struct {
	registry  *provider.Registry
	cache     *infra.ResponseCache
	retry     infra.RetryPolicy
	assume    roic.Assumptions
	assembler *report.Assembler
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache replaces the default response cache.
func WithCache(c *infra.ResponseCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p infra.RetryPolicy) Option {
	return func(e *Engine) { e.retry = p }
}

// WithAssumptions replaces the default analytics assumptions.
func WithAssumptions(a roic.Assumptions) Option {
	return func(e *Engine) { e.assume = a }
}

// WithAssembler attaches a narrative report assembler. Without one the
// engine returns metrics only.
func WithAssembler(a *report.Assembler) Option {
	return func(e *Engine) { e.assembler = a }
}

// New creates an engine over an initialized provider registry.
func New(registry *provider.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		cache:    infra.NewResponseCache(DefaultCacheTTL, 10*time.Minute),
		retry:    infra.DefaultRetryPolicy(),
		assume:   roic.DefaultAssumptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache exposes the response cache, for the status endpoint.
func (e *Engine) Cache() *infra.ResponseCache { return e.cache }

// Analyze runs the full pipeline for one ticker.
func (e *Engine) Analyze(ctx context.Context, ticker string) (*models.AnalysisResult, error) {
	return e.AnalyzeWithProgress(ctx, ticker, nil)
}

// AnalyzeWithProgress runs the pipeline and reports stage transitions
// through progress, which may be nil.
func (e *Engine) AnalyzeWithProgress(ctx context.Context, ticker string, progress ProgressFunc) (*models.AnalysisResult, error) {
	symbol := utils.NormalizeTicker(ticker)
	if !utils.ValidTicker(symbol) {
		return nil, &ConfigurationError{Detail: fmt.Sprintf("invalid ticker %q", ticker)}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	emit := func(stage, detail string) {
		if progress != nil {
			progress(stage, detail)
		}
	}

	emit("fetch", "requesting statements for "+symbol)
	required := provider.StatementModels
	optional := []provider.ModelType{provider.ModelMarketSnapshot, provider.ModelCompanyHeadlines}
	set, err := e.fetchAll(ctx, symbol, required, optional)
	if err != nil {
		return nil, err
	}

	emit("normalize", "building canonical history")
	in := normalize.Inputs{Ticker: symbol}
	if res, ok := set.results[provider.ModelCompanyProfile]; ok {
		in.Profile, _ = res.Data.(*models.CompanyProfile)
	}
	if res, ok := set.results[provider.ModelIncomeStatement]; ok {
		in.Income, _ = res.Data.([]models.IncomeStatement)
	}
	if res, ok := set.results[provider.ModelBalanceSheet]; ok {
		in.Balance, _ = res.Data.([]models.BalanceSheet)
	}
	if res, ok := set.results[provider.ModelCashFlow]; ok {
		in.CashFlow, _ = res.Data.([]models.CashFlow)
	}
	if res, ok := set.results[provider.ModelMarketSnapshot]; ok {
		in.Market, _ = res.Data.(*models.MarketSnapshot)
	}

	hist, dataWarnings, err := normalize.Build(in)
	if err != nil {
		return nil, &NormalizationError{Err: err}
	}

	emit("analyze", "deriving metrics")
	metrics := roic.Compute(hist, e.assume)
	metrics.Warnings = append(metrics.Warnings, dataWarnings...)
	for model, missErr := range set.missing {
		metrics.Warnings = append(metrics.Warnings, models.Warning{
			Code:    models.WarnOptionalMissing,
			Message: fmt.Sprintf("optional source %s unavailable: %v", model, missErr),
		})
	}

	result := &models.AnalysisResult{
		Ticker:  symbol,
		History: hist,
		Metrics: metrics,
	}
	if res, ok := set.results[provider.ModelCompanyHeadlines]; ok {
		result.Headlines, _ = res.Data.([]models.Headline)
	}

	if e.assembler != nil && e.assembler.Available() {
		emit("narrative", "generating report")
		narrative, err := e.assembler.Generate(ctx, hist, metrics, result.Headlines)
		if err != nil {
			log.Printf("engine: narrative generation failed for %s: %v", symbol, err)
			metrics.Warnings = append(metrics.Warnings, models.Warning{
				Code:    models.WarnNarrativeUnavailable,
				Message: "narrative report unavailable: " + err.Error(),
			})
		} else {
			result.Narrative = narrative
		}
	}

	emit("done", "analysis complete")
	return result, nil
}

// Quote fetches a lightweight price quote, bypassing the analysis
// pipeline but using the same cache and fallback chain.
func (e *Engine) Quote(ctx context.Context, ticker string) (*models.Quote, error) {
	symbol := utils.NormalizeTicker(ticker)
	if !utils.ValidTicker(symbol) {
		return nil, &ConfigurationError{Detail: fmt.Sprintf("invalid ticker %q", ticker)}
	}

	res, err := e.fetchOne(ctx, provider.ModelEquityQuote, symbol)
	if err != nil {
		return nil, err
	}
	quote, ok := res.Data.(*models.Quote)
	if !ok {
		return nil, fmt.Errorf("unexpected quote payload from provider %s", res.Provider)
	}
	return quote, nil
}
