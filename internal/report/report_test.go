package report

import (
	"context"
	"errors"
	"testing"

	"github.com/seenimoa/finlens/internal/llm"
	"github.com/seenimoa/finlens/pkg/models"
)

func TestParseNarrativeBareJSON(t *testing.T) {
	rep, err := ParseNarrative(`{
		"summary": "Strong returns on capital.",
		"strengths": ["high ROIC", "negative working capital"],
		"risks": ["concentration"],
		"assessment": "fairly valued",
		"confidence": "medium"
	}`)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Assessment != "fairly valued" {
		t.Errorf("Assessment = %q, want fairly valued", rep.Assessment)
	}
	if len(rep.Strengths) != 2 {
		t.Errorf("Strengths = %d, want 2", len(rep.Strengths))
	}
}

func TestParseNarrativeCodeFence(t *testing.T) {
	rep, err := ParseNarrative("```json\n{\"summary\": \"ok\", \"assessment\": \"uncertain\", \"confidence\": \"low\"}\n```")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Summary != "ok" {
		t.Errorf("Summary = %q, want ok", rep.Summary)
	}
}

func TestParseNarrativeSurroundingProse(t *testing.T) {
	rep, err := ParseNarrative(`Here is my analysis:

{"summary": "Compounder.", "assessment": "undervalued", "confidence": "high"}

Let me know if you need more detail.`)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Assessment != "undervalued" {
		t.Errorf("Assessment = %q, want undervalued", rep.Assessment)
	}
}

func TestParseNarrativeRepairsTrailingComma(t *testing.T) {
	rep, err := ParseNarrative(`{"summary": "ok", "strengths": ["a", "b",], "assessment": "uncertain",}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Strengths) != 2 {
		t.Errorf("Strengths = %d, want 2 after repair", len(rep.Strengths))
	}
}

func TestParseNarrativeEmptyReport(t *testing.T) {
	_, err := ParseNarrative(`{"something_else": true}`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError for a payload with no report fields", err)
	}
}

func TestParseNarrativeGarbage(t *testing.T) {
	_, err := ParseNarrative("I could not produce an analysis.")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if parseErr.Raw == "" {
		t.Error("ParseError must carry the raw response for diagnostics")
	}
}

type recordingBackend struct {
	opts llm.ChatOptions
}

func (p *recordingBackend) Name() string     { return "recording" }
func (p *recordingBackend) Models() []string { return nil }
func (p *recordingBackend) Chat(ctx context.Context, messages []llm.Message, opts *llm.ChatOptions) (*llm.Response, error) {
	p.opts = *opts
	return &llm.Response{Content: `{"summary": "ok", "assessment": "uncertain", "confidence": "low"}`}, nil
}

func TestGenerateUsesConfiguredChatOptions(t *testing.T) {
	backend := &recordingBackend{}
	router := llm.NewRouter("recording")
	router.RegisterProvider(backend)

	a := NewAssembler(router, WithChatOptions(llm.ChatOptions{Temperature: 0.7, MaxTokens: 400}))
	hist := &models.CanonicalFinancialHistory{Ticker: "AAPL", CompanyName: "Apple Inc.", Currency: "USD"}

	rep, err := a.Generate(context.Background(), hist, &models.DerivedMetrics{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Assessment != "uncertain" {
		t.Errorf("Assessment = %q, want uncertain", rep.Assessment)
	}
	if backend.opts.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", backend.opts.Temperature)
	}
	if backend.opts.MaxTokens != 400 {
		t.Errorf("MaxTokens = %v, want 400", backend.opts.MaxTokens)
	}
}

func TestGenerateDefaultChatOptions(t *testing.T) {
	backend := &recordingBackend{}
	router := llm.NewRouter("recording")
	router.RegisterProvider(backend)

	a := NewAssembler(router)
	hist := &models.CanonicalFinancialHistory{Ticker: "AAPL", CompanyName: "Apple Inc.", Currency: "USD"}

	if _, err := a.Generate(context.Background(), hist, &models.DerivedMetrics{}, nil); err != nil {
		t.Fatal(err)
	}
	if backend.opts.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", backend.opts.Temperature)
	}
	if backend.opts.MaxTokens != 1500 {
		t.Errorf("MaxTokens = %v, want 1500", backend.opts.MaxTokens)
	}
}
