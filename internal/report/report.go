// Package report assembles the narrative request for the external
// reasoning service and parses its structured response. The service is
// an opaque text-in/text-out collaborator; everything quantitative is
// computed before this package runs, and the narrative is advisory.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/seenimoa/finlens/internal/llm"
	"github.com/seenimoa/finlens/pkg/models"
)

// ParseError reports that the narrative service's response could not be
// turned into a structured report, even after repair.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("report: cannot parse narrative response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Sampling defaults for narrative requests. Low temperature keeps the
// model anchored to the provided numbers.
const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 1500
)

// Assembler builds narrative reports through an LLM router.
type Assembler struct {
	router   *llm.Router
	chatOpts llm.ChatOptions
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithChatOptions overrides the sampling settings for narrative
// requests. Zero fields keep their defaults.
func WithChatOptions(opts llm.ChatOptions) AssemblerOption {
	return func(a *Assembler) {
		if opts.Temperature > 0 {
			a.chatOpts.Temperature = opts.Temperature
		}
		if opts.MaxTokens > 0 {
			a.chatOpts.MaxTokens = opts.MaxTokens
		}
		if opts.Model != "" {
			a.chatOpts.Model = opts.Model
		}
	}
}

// NewAssembler creates a report assembler over the given router.
func NewAssembler(router *llm.Router, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		router:   router,
		chatOpts: llm.ChatOptions{Temperature: defaultTemperature, MaxTokens: defaultMaxTokens},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Available reports whether any narrative backend is configured.
func (a *Assembler) Available() bool {
	return a.router != nil && a.router.Registered()
}

// Generate produces a narrative report for the computed metrics. The
// caller treats a failure here as a degraded result, not a fatal one.
func (a *Assembler) Generate(ctx context.Context, hist *models.CanonicalFinancialHistory, metrics *models.DerivedMetrics, headlines []models.Headline) (*models.NarrativeReport, error) {
	if !a.Available() {
		return nil, llm.ErrNoProviders
	}

	prompt, err := buildPrompt(hist, metrics, headlines)
	if err != nil {
		return nil, err
	}

	opts := a.chatOpts
	resp, err := a.router.Chat(ctx, []llm.Message{
		llm.SystemMessage(systemPrompt),
		llm.UserMessage(prompt),
	}, &opts)
	if err != nil {
		return nil, err
	}

	return ParseNarrative(resp.Content)
}

const systemPrompt = `You are a financial analyst. You receive a company's normalized multi-year financials and precomputed value-creation metrics (NOPAT, invested capital, ROIC, cost of capital, value spread). Write a concise assessment grounded ONLY in the provided numbers. Do not recompute or invent figures.

Respond with a single JSON object, no prose around it:
{
  "summary": "2-4 sentence overall picture",
  "strengths": ["..."],
  "risks": ["..."],
  "assessment": "undervalued" | "fairly valued" | "overvalued" | "uncertain",
  "confidence": "high" | "medium" | "low"
}`

// buildPrompt serializes the inputs into the user message. JSON keeps
// the payload unambiguous for the model and easy to audit in logs.
func buildPrompt(hist *models.CanonicalFinancialHistory, metrics *models.DerivedMetrics, headlines []models.Headline) (string, error) {
	payload := struct {
		Company   string                          `json:"company"`
		Ticker    string                          `json:"ticker"`
		Currency  string                          `json:"currency"`
		Metrics   *models.DerivedMetrics          `json:"metrics"`
		Years     []models.CanonicalFinancialYear `json:"years"`
		Headlines []models.Headline               `json:"recent_headlines,omitempty"`
	}{
		Company:   hist.CompanyName,
		Ticker:    hist.Ticker,
		Currency:  hist.Currency,
		Metrics:   metrics,
		Years:     hist.Years,
		Headlines: headlines,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: marshal prompt payload: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyze the following company data and respond with the JSON object described in your instructions.\n\n")
	b.Write(data)
	return b.String(), nil
}

// ParseNarrative extracts the structured report from a model response.
// Models wrap JSON in code fences or add stray text; the raw content is
// stripped and repaired before decoding.
func ParseNarrative(content string) (*models.NarrativeReport, error) {
	cleaned := stripCodeFences(content)

	repaired, err := jsonrepair.RepairJSON(cleaned)
	if err != nil {
		return nil, &ParseError{Raw: content, Err: err}
	}

	var rep models.NarrativeReport
	if err := json.Unmarshal([]byte(repaired), &rep); err != nil {
		return nil, &ParseError{Raw: content, Err: err}
	}
	if rep.Summary == "" && rep.Assessment == "" {
		return nil, &ParseError{Raw: content, Err: fmt.Errorf("response carries no report fields")}
	}
	return &rep, nil
}

// stripCodeFences removes a surrounding markdown code fence and any text
// outside the outermost JSON object.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}
