// Package infra provides shared infrastructure for outbound data access:
// an HTTP GET helper, retry with exponential backoff, a TTL response
// cache, and per-destination rate budgets.
package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const userAgent = "finlens/1.0 (+https://github.com/seenimoa/finlens)"

// httpClient is shared across all providers. Per-attempt deadlines come
// from the caller's context, not from the client.
var httpClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
	},
}

// RateLimitedError signals that the destination asked us to slow down,
// either via HTTP 429 or a provider-specific rate-limit payload. The
// retry layer treats it as transient.
type RateLimitedError struct {
	Destination string
	RetryAfter  time.Duration // zero when the destination gave no hint
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by %s (retry after %s)", e.Destination, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited by %s", e.Destination)
}

// DoGet performs an HTTP GET and returns the response body and status.
// A 429 response is converted to *RateLimitedError; any other status,
// including application errors like 404, is returned to the caller as-is
// since those are not transient. The caller must close the body.
func DoGet(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full request URL, query string included.
		// Credentials ride in query parameters, so rewrap without it.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, 0, fmt.Errorf("get %s://%s%s: %w", req.URL.Scheme, req.URL.Host, req.URL.Path, uerr.Err)
		}
		return nil, 0, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		resp.Body.Close()
		return nil, resp.StatusCode, &RateLimitedError{Destination: req.URL.Host, RetryAfter: retryAfter}
	}

	return resp.Body, resp.StatusCode, nil
}

// ReadAllAndClose drains a response body and closes it.
func ReadAllAndClose(body io.ReadCloser) ([]byte, error) {
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
