package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/finlens/internal/engine"
	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/normalize"
)

func TestClientLimiterAllowsUpToLimit(t *testing.T) {
	l := NewClientLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if allowed, _ := l.Allow("1.2.3.4"); !allowed {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
	}
	allowed, retryAfter := l.Allow("1.2.3.4")
	if allowed {
		t.Fatal("request over the limit was allowed")
	}
	if retryAfter <= 0 {
		t.Errorf("retryAfter = %v, want positive", retryAfter)
	}
	if retryAfter > time.Minute {
		t.Errorf("retryAfter = %v, cannot exceed the window", retryAfter)
	}
}

func TestClientLimiterIsolatesClients(t *testing.T) {
	l := NewClientLimiter(1, time.Minute)

	if allowed, _ := l.Allow("1.1.1.1"); !allowed {
		t.Fatal("first client's first request rejected")
	}
	if allowed, _ := l.Allow("2.2.2.2"); !allowed {
		t.Error("one client's traffic throttled another")
	}
	if allowed, _ := l.Allow("1.1.1.1"); allowed {
		t.Error("first client's second request should be rejected")
	}
}

func TestClientLimiterWindowSlides(t *testing.T) {
	l := NewClientLimiter(1, 30*time.Millisecond)

	if allowed, _ := l.Allow("c"); !allowed {
		t.Fatal("first request rejected")
	}
	if allowed, _ := l.Allow("c"); allowed {
		t.Fatal("second immediate request allowed")
	}
	time.Sleep(50 * time.Millisecond)
	if allowed, _ := l.Allow("c"); !allowed {
		t.Error("request after the window expired was rejected")
	}
}

func TestClientLimiterSweep(t *testing.T) {
	l := NewClientLimiter(5, 20*time.Millisecond)
	l.Allow("gone")
	time.Sleep(40 * time.Millisecond)
	l.Sweep()

	l.mu.Lock()
	_, present := l.clients["gone"]
	l.mu.Unlock()
	if present {
		t.Error("idle client survived the sweep")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:52011", "192.0.2.1"},
		{"[::1]:8080", "[::1]"},
		{"192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		r := &http.Request{RemoteAddr: tt.remote}
		if got := clientIP(r); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestClassifyAnalysisError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"configuration", &engine.ConfigurationError{Detail: "bad ticker"}, http.StatusBadRequest},
		{"throttled", &engine.ThrottledError{RetryAfter: time.Second}, http.StatusTooManyRequests},
		{"upstream", &engine.UpstreamUnavailableError{Statement: "IncomeStatement", Err: errors.New("down")}, http.StatusBadGateway},
		{"normalization", &engine.NormalizationError{Err: &normalize.ErrMissingStatement{Statement: "income"}}, http.StatusBadGateway},
		{"rate limited", &infra.RateLimitedError{Destination: "fmp"}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := classifyAnalysisError(tt.err)
			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
			if msg == "" {
				t.Error("message must not be empty")
			}
		})
	}
}

func TestClassifyAnalysisErrorHidesUpstreamDetail(t *testing.T) {
	cause := errors.New(`get http://127.0.0.1:1/income-statement/AAPL: dial tcp: apikey=SUPERSECRETKEY123 connection refused`)
	for _, err := range []error{
		&engine.UpstreamUnavailableError{Statement: "IncomeStatement", Err: cause},
		fmt.Errorf("wrapped: %w", cause),
	} {
		_, msg := classifyAnalysisError(err)
		if strings.Contains(msg, "SUPERSECRETKEY123") {
			t.Errorf("client message carries upstream detail: %q", msg)
		}
	}

	_, msg := classifyAnalysisError(&engine.UpstreamUnavailableError{Statement: "IncomeStatement", Err: cause})
	if !strings.Contains(msg, "IncomeStatement") {
		t.Errorf("message = %q, want the statement name", msg)
	}
}
