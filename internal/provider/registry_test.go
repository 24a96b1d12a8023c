package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/seenimoa/finlens/pkg/models"
)

type stubFetcher struct {
	model    ModelType
	required []string
	fetch    func(ctx context.Context, params QueryParams) (*FetchResult, error)
	calls    int
}

func (f *stubFetcher) ModelType() ModelType     { return f.model }
func (f *stubFetcher) Description() string      { return "stub" }
func (f *stubFetcher) RequiredParams() []string { return f.required }
func (f *stubFetcher) Fetch(ctx context.Context, params QueryParams) (*FetchResult, error) {
	f.calls++
	return f.fetch(ctx, params)
}

type stubProvider struct {
	name     string
	fetchers map[ModelType]*stubFetcher
}

func (p *stubProvider) Info() Info {
	return Info{Name: p.name, Models: p.SupportedModels()}
}
func (p *stubProvider) Init(credentials map[string]string) error { return nil }
func (p *stubProvider) Fetcher(model ModelType) Fetcher {
	f, ok := p.fetchers[model]
	if !ok {
		return nil
	}
	return f
}
func (p *stubProvider) SupportedModels() []ModelType {
	out := make([]ModelType, 0, len(p.fetchers))
	for m := range p.fetchers {
		out = append(out, m)
	}
	return out
}

func newStubProvider(name string, model ModelType, fetch func(ctx context.Context, params QueryParams) (*FetchResult, error)) *stubProvider {
	return &stubProvider{
		name: name,
		fetchers: map[ModelType]*stubFetcher{
			model: {model: model, required: []string{ParamSymbol}, fetch: fetch},
		},
	}
}

func okFetch(ctx context.Context, params QueryParams) (*FetchResult, error) {
	return &FetchResult{Data: "payload:" + params[ParamSymbol]}, nil
}

func TestRegistryFetchDefaultProvider(t *testing.T) {
	reg := NewRegistry()
	first := newStubProvider("first", ModelIncomeStatement, okFetch)
	second := newStubProvider("second", ModelIncomeStatement, okFetch)
	if err := reg.Register(first); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(second); err != nil {
		t.Fatal(err)
	}

	result, err := reg.Fetch(context.Background(), ModelIncomeStatement, QueryParams{ParamSymbol: "AAPL"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "first" {
		t.Errorf("Provider = %q, want the first registered", result.Provider)
	}
	if second.fetchers[ModelIncomeStatement].calls != 0 {
		t.Error("non-default provider was called")
	}
}

func TestRegistryFetchProviderOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newStubProvider("first", ModelIncomeStatement, okFetch))
	reg.Register(newStubProvider("second", ModelIncomeStatement, okFetch))

	result, err := reg.Fetch(context.Background(), ModelIncomeStatement, QueryParams{
		ParamSymbol:   "AAPL",
		ParamProvider: "second",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "second" {
		t.Errorf("Provider = %q, want second", result.Provider)
	}
}

func TestRegistryFetchMissingParam(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newStubProvider("first", ModelIncomeStatement, okFetch))

	_, err := reg.Fetch(context.Background(), ModelIncomeStatement, QueryParams{})
	var missing *ErrMissingParam
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want ErrMissingParam", err)
	}
	if missing.Param != ParamSymbol {
		t.Errorf("Param = %q, want %q", missing.Param, ParamSymbol)
	}
}

func TestRegistryFetchUnknownProvider(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Fetch(context.Background(), ModelIncomeStatement, QueryParams{ParamSymbol: "AAPL"})
	var notFound *ErrProviderNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrProviderNotFound", err)
	}
}

func TestRegistryFetchProvenanceStamped(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newStubProvider("first", ModelBalanceSheet, okFetch))

	result, err := reg.Fetch(context.Background(), ModelBalanceSheet, QueryParams{ParamSymbol: "MSFT"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Model != ModelBalanceSheet {
		t.Errorf("Model = %q, want %q", result.Model, ModelBalanceSheet)
	}
	if result.FetchedAt.IsZero() {
		t.Error("FetchedAt not stamped")
	}
	if result.Signature.Symbol != "MSFT" {
		t.Errorf("Signature.Symbol = %q, want MSFT", result.Signature.Symbol)
	}
}

func TestRegistryFallbackSkipsTriedDefault(t *testing.T) {
	reg := NewRegistry()
	failing := newStubProvider("broken", ModelIncomeStatement, func(ctx context.Context, params QueryParams) (*FetchResult, error) {
		return nil, errors.New("upstream down")
	})
	working := newStubProvider("backup", ModelIncomeStatement, okFetch)
	reg.Register(failing)
	reg.Register(working)

	result, err := reg.FetchWithFallback(context.Background(), ModelIncomeStatement, QueryParams{ParamSymbol: "AAPL"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "backup" {
		t.Errorf("Provider = %q, want backup", result.Provider)
	}
	if failing.fetchers[ModelIncomeStatement].calls != 1 {
		t.Errorf("default tried %d times, want 1", failing.fetchers[ModelIncomeStatement].calls)
	}
}

func TestRegistryFallbackAllFail(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newStubProvider("a", ModelIncomeStatement, func(ctx context.Context, params QueryParams) (*FetchResult, error) {
		return nil, errors.New("a down")
	}))
	reg.Register(newStubProvider("b", ModelIncomeStatement, func(ctx context.Context, params QueryParams) (*FetchResult, error) {
		return nil, errors.New("b down")
	}))

	_, err := reg.FetchWithFallback(context.Background(), ModelIncomeStatement, QueryParams{ParamSymbol: "AAPL"})
	if err == nil {
		t.Fatal("want error when every provider fails")
	}
}

func TestProvidersForRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newStubProvider("primary", ModelCashFlow, okFetch))
	reg.Register(newStubProvider("secondary", ModelCashFlow, okFetch))

	order := reg.ProvidersFor(ModelCashFlow)
	if len(order) != 2 || order[0] != "primary" || order[1] != "secondary" {
		t.Errorf("ProvidersFor = %v, want [primary secondary]", order)
	}
}

func TestSignatureExcludesRoutingParams(t *testing.T) {
	sig := Signature("fmp", ModelIncomeStatement, QueryParams{
		ParamSymbol:   "AAPL",
		ParamProvider: "fmp",
		ParamLimit:    "5",
	})

	if sig.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", sig.Symbol)
	}
	if _, ok := sig.Params[ParamProvider]; ok {
		t.Error("provider override must not enter the signature params")
	}
	if _, ok := sig.Params[ParamSymbol]; ok {
		t.Error("symbol is carried by its own field, not params")
	}
	if sig.Params[ParamLimit] != "5" {
		t.Errorf("Params[limit] = %q, want 5", sig.Params[ParamLimit])
	}
}

func TestSignatureStringDeterministic(t *testing.T) {
	a := models.RequestSignature{
		Provider: "fmp",
		Endpoint: "income_statement",
		Symbol:   "AAPL",
		Params:   map[string]string{"limit": "5", "period": "annual"},
	}
	b := models.RequestSignature{
		Provider: "fmp",
		Endpoint: "income_statement",
		Symbol:   "AAPL",
		Params:   map[string]string{"period": "annual", "limit": "5"},
	}
	if a.String() != b.String() {
		t.Errorf("signatures differ for identical requests:\n%s\n%s", a.String(), b.String())
	}
}
