package fmp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/pkg/models"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := New()
	if err := p.Init(map[string]string{credAPIKey: "test-key"}); err != nil {
		t.Fatal(err)
	}
	p.SetBaseURL(srv.URL)
	return p
}

func TestIncomeStatementFetch(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/income-statement/AAPL" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Error("api key not forwarded")
		}
		w.Write([]byte(`[
			{"date": "2024-09-28", "revenue": 391035000000, "costOfRevenue": 210352000000,
			 "grossProfit": 180683000000, "operatingIncome": 123216000000,
			 "incomeBeforeTax": 123485000000, "incomeTaxExpense": 29749000000,
			 "netIncome": 93736000000},
			{"date": "2023-09-30", "revenue": 383285000000, "operatingIncome": 114301000000}
		]`))
	})

	res, err := p.Fetcher(provider.ModelIncomeStatement).Fetch(context.Background(),
		provider.QueryParams{provider.ParamSymbol: "AAPL"})
	if err != nil {
		t.Fatal(err)
	}

	stmts, ok := res.Data.([]models.IncomeStatement)
	if !ok {
		t.Fatalf("Data type = %T", res.Data)
	}
	if len(stmts) != 2 {
		t.Fatalf("statements = %d, want 2", len(stmts))
	}
	if stmts[0].PeriodEnd != "2024-09-28" {
		t.Errorf("PeriodEnd = %s", stmts[0].PeriodEnd)
	}
	if stmts[0].Revenue != 391035000000 {
		t.Errorf("Revenue = %v", stmts[0].Revenue)
	}
	if stmts[0].EBIT != 123216000000 {
		t.Errorf("EBIT = %v, want operating income", stmts[0].EBIT)
	}
}

func TestBalanceSheetFetch(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"date": "2024-09-28", "totalCurrentAssets": 152987000000,
			"totalCurrentLiabilities": 176392000000, "propertyPlantEquipmentNet": 45680000000,
			"totalStockholdersEquity": 56950000000, "longTermDebt": 85750000000}]`))
	})

	res, err := p.Fetcher(provider.ModelBalanceSheet).Fetch(context.Background(),
		provider.QueryParams{provider.ParamSymbol: "AAPL"})
	if err != nil {
		t.Fatal(err)
	}
	sheets := res.Data.([]models.BalanceSheet)
	if sheets[0].NetPPE != 45680000000 {
		t.Errorf("NetPPE = %v", sheets[0].NetPPE)
	}
	if sheets[0].LongTermDebt != 85750000000 {
		t.Errorf("LongTermDebt = %v", sheets[0].LongTermDebt)
	}
}

func TestRateLimitEnvelope(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Limit Reach. Please upgrade your plan."}`))
	})

	_, err := p.Fetcher(provider.ModelIncomeStatement).Fetch(context.Background(),
		provider.QueryParams{provider.ParamSymbol: "AAPL"})
	var rl *infra.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want RateLimitedError from the error envelope", err)
	}
}

func TestHTTP429(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.Fetcher(provider.ModelCashFlow).Fetch(context.Background(),
		provider.QueryParams{provider.ParamSymbol: "AAPL"})
	var rl *infra.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want RateLimitedError", err)
	}
	if rl.RetryAfter.Seconds() != 30 {
		t.Errorf("RetryAfter = %v, want 30s", rl.RetryAfter)
	}
}

func TestUnknownTicker(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := p.Fetcher(provider.ModelIncomeStatement).Fetch(context.Background(),
		provider.QueryParams{provider.ParamSymbol: "NOSUCH"})
	var notFound *provider.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if notFound.Symbol != "NOSUCH" {
		t.Errorf("Symbol = %q", notFound.Symbol)
	}
}

func TestInitRequiresKey(t *testing.T) {
	p := New()
	if err := p.Init(map[string]string{}); err == nil {
		t.Fatal("Init without the API key must fail")
	}
}
