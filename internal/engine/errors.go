package engine

import (
	"fmt"
	"time"
)

// ConfigurationError is raised before any network call when a required
// credential or setting is absent.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Detail
}

// ThrottledError reports that the caller exceeded the request rate
// limit. It carries a retry-after hint and is never retried server-side.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("request rate limit exceeded, retry after %s", e.RetryAfter)
}

// UpstreamUnavailableError reports that a required statement could not
// be fetched after retries across every capable provider. It names the
// statement so the caller can render a specific message.
type UpstreamUnavailableError struct {
	Statement string
	Err       error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("required statement %q unavailable: %v", e.Statement, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// NormalizationError reports that the fetched statements could not be
// assembled into a canonical history.
type NormalizationError struct {
	Err error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization failed: %v", e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }
