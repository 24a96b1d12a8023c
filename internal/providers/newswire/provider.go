// Package newswire implements a keyless headlines provider backed by
// public RSS feeds. Headlines are optional enrichment: callers treat a
// failure here as a degraded result, never a fatal one.
package newswire

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/pkg/models"
)

const providerName = "newswire"

// Source is one RSS feed. Feeds with a %s verb in the URL are queried
// per symbol; the rest are market-wide feeds filtered by ticker mention.
type Source struct {
	Name      string
	URL       string
	PerSymbol bool
}

// DefaultSources lists the configured financial news RSS feeds.
var DefaultSources = []Source{
	{
		Name:      "Yahoo Finance",
		URL:       "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US",
		PerSymbol: true,
	},
	{
		Name: "CNBC Markets",
		URL:  "https://www.cnbc.com/id/100003114/device/rss/rss.html",
	},
	{
		Name: "MarketWatch Top Stories",
		URL:  "https://feeds.content.dowjones.io/public/rss/mw_topstories",
	},
}

// Provider implements provider.Provider over the RSS sources.
type Provider struct {
	provider.BaseProvider
	sources []Source
	parser  *gofeed.Parser
	budget  *infra.Budget
}

// New creates the newswire provider with the default sources.
func New() *Provider {
	return NewWithSources(DefaultSources)
}

// NewWithSources creates a newswire provider over custom feeds.
func NewWithSources(sources []Source) *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Company headlines from public RSS feeds",
			"https://feeds.finance.yahoo.com",
			nil, // no credentials
		),
		sources: sources,
		parser:  gofeed.NewParser(),
		budget:  infra.NewBudget(2, 2),
	}
	p.RegisterFetcher(&headlinesFetcher{
		p:           p,
		BaseFetcher: provider.NewBaseFetcher(provider.ModelCompanyHeadlines, "Recent headlines mentioning the company", []string{provider.ParamSymbol}, p.budget, "newswire"),
	})
	return p
}

const defaultHeadlineLimit = 10

type headlinesFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func (f *headlinesFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	var all []models.Headline
	var lastErr error
	for _, src := range f.p.sources {
		if err := f.AwaitBudget(ctx); err != nil {
			return nil, err
		}
		items, err := f.p.fetchFeed(ctx, src, symbol)
		if err != nil {
			// One dead feed must not sink the rest.
			lastErr = err
			continue
		}
		all = append(all, items...)
	}
	if len(all) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("newswire headlines %s: %w", symbol, lastErr)
		}
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].PublishedAt.After(all[j].PublishedAt) })
	if len(all) > defaultHeadlineLimit {
		all = all[:defaultHeadlineLimit]
	}
	return &provider.FetchResult{Data: all, FetchedAt: time.Now()}, nil
}

func (p *Provider) fetchFeed(ctx context.Context, src Source, symbol string) ([]models.Headline, error) {
	feedURL := src.URL
	if src.PerSymbol {
		feedURL = fmt.Sprintf(src.URL, url.QueryEscape(symbol))
	}

	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.Name, err)
	}

	var out []models.Headline
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		if !src.PerSymbol && !mentions(item, symbol) {
			continue
		}
		h := models.Headline{
			Title:  strings.TrimSpace(item.Title),
			URL:    item.Link,
			Source: src.Name,
		}
		if item.PublishedParsed != nil {
			h.PublishedAt = *item.PublishedParsed
		}
		out = append(out, h)
	}
	return out, nil
}

// mentions reports whether a market-wide feed item references the ticker.
func mentions(item *gofeed.Item, symbol string) bool {
	needle := strings.ToUpper(symbol)
	if strings.Contains(strings.ToUpper(item.Title), needle) {
		return true
	}
	return strings.Contains(strings.ToUpper(item.Description), needle)
}
