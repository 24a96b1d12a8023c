package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/seenimoa/finlens/internal/engine"
)

// ClientLimiter is a sliding-window request counter per client identity
// (the caller's IP). A rejection is reported with a Retry-After hint,
// never silently dropped.
type ClientLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string][]time.Time
}

// NewClientLimiter creates a limiter allowing limit requests per window
// per client.
func NewClientLimiter(limit int, window time.Duration) *ClientLimiter {
	return &ClientLimiter{
		window:  window,
		limit:   limit,
		clients: make(map[string][]time.Time),
	}
}

// Allow records a request for the client and reports whether it fits
// the window. When rejected, retryAfter is how long until the oldest
// counted request leaves the window.
func (l *ClientLimiter) Allow(client string) (allowed bool, retryAfter time.Duration) {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	stamps := l.clients[client]
	live := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			live = append(live, t)
		}
	}

	if len(live) >= l.limit {
		l.clients[client] = live
		return false, live[0].Sub(cutoff)
	}

	l.clients[client] = append(live, now)
	return true, 0
}

// Sweep drops clients with no requests inside the window. Called
// opportunistically; correctness does not depend on it.
func (l *ClientLimiter) Sweep() {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for client, stamps := range l.clients {
		idle := true
		for _, t := range stamps {
			if t.After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			delete(l.clients, client)
		}
	}
}

// rateLimit wraps a handler chain with a client limiter. RealIP
// middleware runs earlier, so RemoteAddr identifies the caller.
func (s *Server) rateLimit(limiter *ClientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := limiter.Allow(clientIP(r))
			if !allowed {
				status, msg := classifyAnalysisError(&engine.ThrottledError{RetryAfter: retryAfter})
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				writeError(w, status, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == ':' {
			return host[:i]
		}
	}
	return host
}
