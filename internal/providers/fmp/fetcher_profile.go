package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

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

	var rows []fmpProfile
	if err := f.p.getJSON(ctx, "/profile/"+url.PathEscape(symbol), nil, &rows); err != nil {
		return nil, fmt.Errorf("fmp profile %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	r := rows[0]
	p := &models.CompanyProfile{
		Ticker:   r.Symbol,
		Name:     r.CompanyName,
		Currency: r.Currency,
		Exchange: r.ExchangeShortName,
		Sector:   r.Sector,
		Industry: r.Industry,
	}
	return &provider.FetchResult{Data: p, FetchedAt: time.Now()}, nil
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

	// The snapshot merges /quote (P/E, 52-week range, shares) with
	// /profile (beta). Quote is authoritative where both respond.
	var quotes []fmpQuote
	if err := f.p.getJSON(ctx, "/quote/"+url.PathEscape(symbol), nil, &quotes); err != nil {
		return nil, fmt.Errorf("fmp quote %s: %w", symbol, err)
	}
	if len(quotes) == 0 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}
	q := quotes[0]

	snap := &models.MarketSnapshot{}
	setKnownPositive(&snap.Price, q.Price)
	setKnownPositive(&snap.MarketCap, q.MarketCap)
	setKnownPositive(&snap.PETrailing, q.PE)
	setKnownPositive(&snap.High52W, q.YearHigh)
	setKnownPositive(&snap.Low52W, q.YearLow)
	setKnownPositive(&snap.SharesOutstanding, q.SharesOutstanding)

	var profiles []fmpProfile
	if err := f.p.getJSON(ctx, "/profile/"+url.PathEscape(symbol), nil, &profiles); err == nil && len(profiles) > 0 {
		pr := profiles[0]
		if pr.Beta != 0 {
			snap.Beta = models.Known(pr.Beta)
		}
		if !snap.High52W.Known || !snap.Low52W.Known {
			if lo, hi, ok := parseRange(pr.Range); ok {
				snap.Low52W, snap.High52W = models.Known(lo), models.Known(hi)
			}
		}
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

	var quotes []fmpQuote
	if err := f.p.getJSON(ctx, "/quote/"+url.PathEscape(symbol), nil, &quotes); err != nil {
		return nil, fmt.Errorf("fmp quote %s: %w", symbol, err)
	}
	if len(quotes) == 0 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}
	q := quotes[0]

	quote := &models.Quote{
		Ticker:    q.Symbol,
		Price:     q.Price,
		Change:    q.Change,
		ChangePct: q.ChangesPercentage,
		Volume:    q.Volume,
		Timestamp: time.Unix(q.Timestamp, 0),
	}
	return &provider.FetchResult{Data: quote, FetchedAt: time.Now()}, nil
}

// setKnownPositive marks a market field known only for positive values;
// FMP encodes "no data" as zero, which must stay unknown here.
func setKnownPositive(dst *models.OptFloat, v float64) {
	if v > 0 {
		*dst = models.Known(v)
	}
}

// parseRange splits FMP's "low-high" 52-week range string.
func parseRange(s string) (lo, hi float64, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
