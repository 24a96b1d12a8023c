// Package alphavantage implements the Alpha Vantage data provider.
// Alpha Vantage wraps annual periods in an "annualReports" envelope and
// serializes every numeric field as a string, with "None" standing in
// for missing values, so all figures go through the normalize coercion
// helpers instead of direct struct decoding.
//
// Free tier: 25 requests/day, 5 requests/minute.
// Docs: https://www.alphavantage.co/documentation/
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/provider"
)

const (
	providerName   = "alphavantage"
	defaultBaseURL = "https://www.alphavantage.co"
	credAPIKey     = "api_key"
)

// Provider implements provider.Provider for Alpha Vantage.
type Provider struct {
	provider.BaseProvider
	apiKey  string
	baseURL string
	budget  *infra.Budget
}

// New creates the Alpha Vantage provider and registers its fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Alpha Vantage - statements, company overview and quotes",
			"https://www.alphavantage.co",
			[]provider.Credential{{
				Name:        credAPIKey,
				Description: "Alpha Vantage API key from alphavantage.co",
				Required:    true,
				EnvVar:      "FINLENS_PROVIDERS_ALPHAVANTAGE_KEY",
			}},
		),
		baseURL: defaultBaseURL,
		// The free tier allows 5 calls/minute.
		budget: infra.NewBudget(0.08, 1),
	}

	p.RegisterFetcher(&profileFetcher{p: p, BaseFetcher: p.newBase(provider.ModelCompanyProfile, "Company overview from Alpha Vantage")})
	p.RegisterFetcher(&incomeFetcher{p: p, BaseFetcher: p.newBase(provider.ModelIncomeStatement, "Annual income statements from Alpha Vantage")})
	p.RegisterFetcher(&balanceFetcher{p: p, BaseFetcher: p.newBase(provider.ModelBalanceSheet, "Annual balance sheets from Alpha Vantage")})
	p.RegisterFetcher(&cashFlowFetcher{p: p, BaseFetcher: p.newBase(provider.ModelCashFlow, "Annual cash flow statements from Alpha Vantage")})
	p.RegisterFetcher(&marketFetcher{p: p, BaseFetcher: p.newBase(provider.ModelMarketSnapshot, "Market snapshot from Alpha Vantage overview")})
	p.RegisterFetcher(&quoteFetcher{p: p, BaseFetcher: p.newBase(provider.ModelEquityQuote, "Global quote from Alpha Vantage")})

	return p
}

func (p *Provider) newBase(model provider.ModelType, desc string) provider.BaseFetcher {
	return provider.NewBaseFetcher(model, desc, []string{provider.ParamSymbol}, p.budget, "alphavantage.co")
}

// Init stores the API key.
func (p *Provider) Init(credentials map[string]string) error {
	if err := p.BaseProvider.Init(credentials); err != nil {
		return err
	}
	p.apiKey = credentials[credAPIKey]
	return nil
}

// SetBaseURL points the provider at a different API root. Used by tests.
func (p *Provider) SetBaseURL(u string) { p.baseURL = strings.TrimRight(u, "/") }

// avEnvelope covers the three non-data payloads Alpha Vantage returns
// with HTTP 200: "Note" and "Information" when the daily or per-minute
// quota is exhausted, "Error Message" for bad requests.
type avEnvelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// getJSON performs one budgeted GET against the query endpoint and
// decodes the body into dest.
func (p *Provider) getJSON(ctx context.Context, function, symbol string, dest any) error {
	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", symbol)
	q.Set("apikey", p.apiKey)
	full := p.baseURL + "/query?" + q.Encode()

	body, status, err := infra.DoGet(ctx, full, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	data, err := infra.ReadAllAndClose(body)
	if err != nil {
		return err
	}
	if status != 200 {
		return fmt.Errorf("alphavantage: unexpected status %d", status)
	}

	var envelope avEnvelope
	if json.Unmarshal(data, &envelope) == nil {
		if envelope.Note != "" || envelope.Information != "" {
			return &infra.RateLimitedError{Destination: "alphavantage.co"}
		}
		if envelope.ErrorMessage != "" {
			return fmt.Errorf("alphavantage: %s", envelope.ErrorMessage)
		}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse Alpha Vantage JSON: %w", err)
	}
	return nil
}
