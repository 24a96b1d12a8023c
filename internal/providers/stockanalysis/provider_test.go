package stockanalysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/pkg/models"
)

const statsPage = `<html><body>
<table>
<tr><td>Market Cap</td><td>3.45T</td></tr>
<tr><td>Beta</td><td>1.27</td></tr>
<tr><td>PE Ratio</td><td>34.12</td></tr>
<tr><td>Forward PE</td><td>n/a</td></tr>
<tr><td>Shares Out</td><td>15.12B</td></tr>
<tr><td>52-Week Range</td><td>164.08 - 260.10</td></tr>
<tr><td>Dividend Yield</td><td>0.44%</td></tr>
</table>
</body></html>`

func testFetch(t *testing.T, handler http.HandlerFunc) (*provider.FetchResult, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := New()
	p.SetBaseURL(srv.URL)
	return p.Fetcher(provider.ModelMarketSnapshot).Fetch(context.Background(),
		provider.QueryParams{provider.ParamSymbol: "AAPL"})
}

func TestScrapeStatisticsTable(t *testing.T) {
	res, err := testFetch(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stocks/aapl/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(statsPage))
	})
	if err != nil {
		t.Fatal(err)
	}

	snap := res.Data.(*models.MarketSnapshot)
	if !snap.MarketCap.Known || snap.MarketCap.Value != 3.45e12 {
		t.Errorf("MarketCap = %+v, want known 3.45e12", snap.MarketCap)
	}
	if !snap.Beta.Known || snap.Beta.Value != 1.27 {
		t.Errorf("Beta = %+v, want known 1.27", snap.Beta)
	}
	if snap.PEForward.Known {
		t.Error("Forward PE n/a must stay unknown")
	}
	if !snap.SharesOutstanding.Known || snap.SharesOutstanding.Value != 15.12e9 {
		t.Errorf("SharesOutstanding = %+v, want known 15.12e9", snap.SharesOutstanding)
	}
	if !snap.Low52W.Known || snap.Low52W.Value != 164.08 {
		t.Errorf("Low52W = %+v, want known 164.08", snap.Low52W)
	}
	if !snap.High52W.Known || snap.High52W.Value != 260.10 {
		t.Errorf("High52W = %+v, want known 260.10", snap.High52W)
	}
}

func TestPageWithoutStatsIsNotFound(t *testing.T) {
	_, err := testFetch(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Welcome</p></body></html>`))
	})
	var notFound *provider.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestHTTP404IsNotFound(t *testing.T) {
	_, err := testFetch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	var notFound *provider.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestParseStat(t *testing.T) {
	tests := []struct {
		in        string
		wantKnown bool
		want      float64
	}{
		{"3.45T", true, 3.45e12},
		{"184.3B", true, 184.3e9},
		{"52.7M", true, 52.7e6},
		{"910K", true, 910e3},
		{"1.28", true, 1.28},
		{"1,234.5", true, 1234.5},
		{"n/a", false, 0},
		{"-", false, 0},
		{"", false, 0},
	}
	for _, tt := range tests {
		got := parseStat(tt.in)
		if got.Known != tt.wantKnown {
			t.Errorf("parseStat(%q).Known = %v, want %v", tt.in, got.Known, tt.wantKnown)
			continue
		}
		if got.Known && got.Value != tt.want {
			t.Errorf("parseStat(%q) = %v, want %v", tt.in, got.Value, tt.want)
		}
	}
}
