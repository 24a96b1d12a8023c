package alphavantage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seenimoa/finlens/internal/normalize"
	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/pkg/models"
)

// --- CompanyProfile ---

type profileFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func (f *profileFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	if err := f.AwaitBudget(ctx); err != nil {
		return nil, err
	}

	var ov avOverview
	if err := f.p.getJSON(ctx, "OVERVIEW", symbol, &ov); err != nil {
		return nil, fmt.Errorf("alphavantage overview %s: %w", symbol, err)
	}
	// Unknown symbols come back as an empty object with HTTP 200.
	if ov.Symbol == "" {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	profile := &models.CompanyProfile{
		Ticker:   ov.Symbol,
		Name:     ov.Name,
		Currency: ov.Currency,
		Exchange: ov.Exchange,
		Sector:   ov.Sector,
		Industry: ov.Industry,
	}
	return &provider.FetchResult{Data: profile, FetchedAt: time.Now()}, nil
}

// --- MarketSnapshot ---

type marketFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func (f *marketFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	if err := f.AwaitBudget(ctx); err != nil {
		return nil, err
	}

	var ov avOverview
	if err := f.p.getJSON(ctx, "OVERVIEW", symbol, &ov); err != nil {
		return nil, fmt.Errorf("alphavantage overview %s: %w", symbol, err)
	}
	if ov.Symbol == "" {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	snap := &models.MarketSnapshot{
		MarketCap:         normalize.MarketValue(ov.MarketCap),
		Beta:              normalize.MarketValue(ov.Beta),
		PETrailing:        normalize.MarketValue(ov.PERatio),
		PEForward:         normalize.MarketValue(ov.ForwardPE),
		PriceToBook:       normalize.MarketValue(ov.PriceToBook),
		High52W:           normalize.MarketValue(ov.High52Week),
		Low52W:            normalize.MarketValue(ov.Low52Week),
		SharesOutstanding: normalize.MarketValue(ov.SharesOutstanding),
	}
	return &provider.FetchResult{Data: snap, FetchedAt: time.Now()}, nil
}

// --- EquityQuote ---

type quoteFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func (f *quoteFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	if err := f.AwaitBudget(ctx); err != nil {
		return nil, err
	}

	var gq avGlobalQuote
	if err := f.p.getJSON(ctx, "GLOBAL_QUOTE", symbol, &gq); err != nil {
		return nil, fmt.Errorf("alphavantage quote %s: %w", symbol, err)
	}
	if gq.GlobalQuote.Symbol == "" {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	quote := &models.Quote{
		Ticker:    gq.GlobalQuote.Symbol,
		Price:     normalize.StatementValue(gq.GlobalQuote.Price),
		Change:    normalize.StatementValue(gq.GlobalQuote.Change),
		ChangePct: normalize.StatementValue(strings.TrimSuffix(gq.GlobalQuote.ChangePercent, "%")),
		Volume:    normalize.StatementValue(gq.GlobalQuote.Volume),
		Timestamp: time.Now(),
	}
	return &provider.FetchResult{Data: quote, FetchedAt: time.Now()}, nil
}
