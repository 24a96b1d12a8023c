package infra

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDoGetStripsQueryFromTransportError(t *testing.T) {
	// A closed server guarantees a transport-level failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, _, err := DoGet(context.Background(), srv.URL+"/income-statement/AAPL?apikey=SUPERSECRETKEY123&limit=7", nil)
	if err == nil {
		t.Fatal("expected an error against a closed server")
	}
	if strings.Contains(err.Error(), "SUPERSECRETKEY123") {
		t.Fatalf("transport error carries the query string: %v", err)
	}
	if !strings.Contains(err.Error(), "/income-statement/AAPL") {
		t.Errorf("transport error should keep host and path: %v", err)
	}

	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		t.Errorf("underlying network error missing from the chain: %v", err)
	}
	if !IsRetryable(err) {
		t.Error("connection failures must stay retryable after rewrapping")
	}
}
