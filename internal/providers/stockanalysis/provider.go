// Package stockanalysis implements a keyless market-data fallback by
// scraping the statistics table on stockanalysis.com. It serves only
// the market snapshot model and registers after the API-backed
// providers, so it is reached through fallback when they fail.
package stockanalysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/pkg/models"
)

const (
	providerName   = "stockanalysis"
	defaultBaseURL = "https://stockanalysis.com"
)

// Provider implements provider.Provider over the scraped pages.
type Provider struct {
	provider.BaseProvider
	baseURL string
	budget  *infra.Budget
}

// New creates the stockanalysis provider.
func New() *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Market snapshot scraped from stockanalysis.com",
			"https://stockanalysis.com",
			nil, // no credentials
		),
		baseURL: defaultBaseURL,
		// Be polite to a site we scrape.
		budget: infra.NewBudget(1, 1),
	}
	p.RegisterFetcher(&marketFetcher{
		p:           p,
		BaseFetcher: provider.NewBaseFetcher(provider.ModelMarketSnapshot, "Scraped market statistics", []string{provider.ParamSymbol}, p.budget, "stockanalysis.com"),
	})
	return p
}

// SetBaseURL points the provider at a different site root. Used by tests.
func (p *Provider) SetBaseURL(u string) { p.baseURL = strings.TrimRight(u, "/") }

type marketFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func (f *marketFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	if err := f.AwaitBudget(ctx); err != nil {
		return nil, err
	}

	pageURL := fmt.Sprintf("%s/stocks/%s/", f.p.baseURL, strings.ToLower(symbol))
	body, status, err := infra.DoGet(ctx, pageURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, fmt.Errorf("stockanalysis page %s: %w", symbol, err)
	}
	defer body.Close()
	if status == 404 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}
	if status != 200 {
		return nil, fmt.Errorf("stockanalysis page %s: unexpected status %d", symbol, status)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse stockanalysis page %s: %w", symbol, err)
	}

	snap := scrapeSnapshot(doc)
	if snap == nil {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}
	return &provider.FetchResult{Data: snap, FetchedAt: time.Now()}, nil
}

// scrapeSnapshot walks the overview statistics tables, which render as
// two-cell rows of label and value. Returns nil when no stat is found.
func scrapeSnapshot(doc *goquery.Document) *models.MarketSnapshot {
	snap := &models.MarketSnapshot{}
	found := false

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())

		switch {
		case strings.EqualFold(label, "Market Cap"):
			snap.MarketCap = parseStat(value)
		case strings.EqualFold(label, "Beta"):
			snap.Beta = parseStat(value)
		case strings.EqualFold(label, "PE Ratio"):
			snap.PETrailing = parseStat(value)
		case strings.EqualFold(label, "Forward PE"):
			snap.PEForward = parseStat(value)
		case strings.EqualFold(label, "Shares Out"), strings.EqualFold(label, "Shares Outstanding"):
			snap.SharesOutstanding = parseStat(value)
		case strings.EqualFold(label, "52-Week Range"):
			low, high := parseRange(value)
			snap.Low52W, snap.High52W = low, high
		default:
			return
		}
		found = true
	})

	if !found {
		return nil
	}
	return snap
}

// parseStat parses a display value like "3.45T", "184.3B", "n/a" or
// "1.28" into an optional float.
func parseStat(s string) models.OptFloat {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || strings.EqualFold(s, "n/a") || s == "-" {
		return models.Unknown()
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "T"):
		mult, s = 1e12, strings.TrimSuffix(s, "T")
	case strings.HasSuffix(s, "B"):
		mult, s = 1e9, strings.TrimSuffix(s, "B")
	case strings.HasSuffix(s, "M"):
		mult, s = 1e6, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		mult, s = 1e3, strings.TrimSuffix(s, "K")
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return models.Unknown()
	}
	return models.Known(f * mult)
}

// parseRange splits a "164.08 - 260.10" display range.
func parseRange(s string) (low, high models.OptFloat) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return models.Unknown(), models.Unknown()
	}
	return parseStat(parts[0]), parseStat(parts[1])
}
