// Package fmp implements the Financial Modeling Prep data provider.
// FMP serves statements as flat arrays of period records with numeric
// JSON fields, authenticated by an API key query parameter.
//
// Free tier: 250 requests/day.
// Docs: https://financialmodelingprep.com/developer/docs
package fmp

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
	providerName   = "fmp"
	defaultBaseURL = "https://financialmodelingprep.com/api/v3"
	credAPIKey     = "api_key"
)

// Provider implements provider.Provider for FMP.
type Provider struct {
	provider.BaseProvider
	apiKey  string
	baseURL string
	budget  *infra.Budget
}

// New creates the FMP provider and registers its fetchers.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Financial Modeling Prep - statements, profile and market data",
			"https://financialmodelingprep.com",
			[]provider.Credential{{
				Name:        credAPIKey,
				Description: "FMP API key from financialmodelingprep.com",
				Required:    true,
				EnvVar:      "FINLENS_PROVIDERS_FMP_KEY",
			}},
		),
		baseURL: defaultBaseURL,
		budget:  infra.NewBudget(4, 2),
	}

	p.RegisterFetcher(&profileFetcher{p: p, BaseFetcher: p.newBase(provider.ModelCompanyProfile, "Company profile from FMP")})
	p.RegisterFetcher(&incomeFetcher{p: p, BaseFetcher: p.newBase(provider.ModelIncomeStatement, "Annual income statements from FMP")})
	p.RegisterFetcher(&balanceFetcher{p: p, BaseFetcher: p.newBase(provider.ModelBalanceSheet, "Annual balance sheets from FMP")})
	p.RegisterFetcher(&cashFlowFetcher{p: p, BaseFetcher: p.newBase(provider.ModelCashFlow, "Annual cash flow statements from FMP")})
	p.RegisterFetcher(&marketFetcher{p: p, BaseFetcher: p.newBase(provider.ModelMarketSnapshot, "Market snapshot from FMP quote and profile")})
	p.RegisterFetcher(&quoteFetcher{p: p, BaseFetcher: p.newBase(provider.ModelEquityQuote, "Real-time quote from FMP")})

	return p
}

func (p *Provider) newBase(model provider.ModelType, desc string) provider.BaseFetcher {
	return provider.NewBaseFetcher(model, desc, []string{provider.ParamSymbol}, p.budget, "financialmodelingprep.com")
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

// fmpError is the error envelope FMP returns instead of data.
type fmpError struct {
	ErrorMessage string `json:"Error Message"`
}

// getJSON performs one budgeted GET against the FMP API and decodes the
// body into dest. FMP reports its own rate limiting through an error
// envelope rather than HTTP 429, so both forms map to RateLimitedError.
func (p *Provider) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", p.apiKey)
	full := p.baseURL + path + "?" + query.Encode()

	body, status, err := infra.DoGet(ctx, full, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	data, err := infra.ReadAllAndClose(body)
	if err != nil {
		return err
	}
	if status != 200 {
		return fmt.Errorf("fmp: unexpected status %d", status)
	}

	var envelope fmpError
	if json.Unmarshal(data, &envelope) == nil && envelope.ErrorMessage != "" {
		if strings.Contains(strings.ToLower(envelope.ErrorMessage), "limit") {
			return &infra.RateLimitedError{Destination: "financialmodelingprep.com"}
		}
		return fmt.Errorf("fmp: %s", envelope.ErrorMessage)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse FMP JSON: %w", err)
	}
	return nil
}
