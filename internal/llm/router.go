package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Router routes chat requests to the primary provider and falls back in
// configured order when it fails.
type Router struct {
	mu         sync.RWMutex
	providers  map[string]Provider
	primary    string
	fallbacks  []string
	maxRetries int
	retryDelay time.Duration
}

// RouterOption configures the router.
type RouterOption func(*Router)

// WithFallbacks sets the fallback provider chain.
func WithFallbacks(providers ...string) RouterOption {
	return func(r *Router) { r.fallbacks = providers }
}

// WithMaxRetries sets the maximum number of retry attempts per provider.
func WithMaxRetries(n int) RouterOption {
	return func(r *Router) { r.maxRetries = n }
}

// WithRetryDelay sets the base delay between retries.
func WithRetryDelay(d time.Duration) RouterOption {
	return func(r *Router) { r.retryDelay = d }
}

// NewRouter creates a router with the given primary provider name.
func NewRouter(primary string, opts ...RouterOption) *Router {
	r := &Router{
		providers:  make(map[string]Provider),
		primary:    primary,
		maxRetries: 2,
		retryDelay: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterProvider adds a provider to the router.
func (r *Router) RegisterProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// GetProvider returns a registered provider by name.
func (r *Router) GetProvider(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Registered reports whether any provider is registered.
func (r *Router) Registered() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers) > 0
}

// Chat routes a chat request through the provider chain: primary first,
// then each fallback in order. Rate-limited attempts are retried with a
// linear delay before moving on.
func (r *Router) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	if !r.Registered() {
		return nil, ErrNoProviders
	}
	chain := r.providerChain()

	var lastErr error
	for _, name := range chain {
		p, ok := r.GetProvider(name)
		if !ok {
			continue
		}

		resp, err := r.chatWithRetry(ctx, p, messages, opts)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		log.Printf("llm/router: provider %s failed: %v, trying next", name, err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("llm/router: all providers failed, last error: %w", lastErr)
}

func (r *Router) chatWithRetry(ctx context.Context, p Provider, messages []Message, opts *ChatOptions) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.retryDelay * time.Duration(attempt)):
			}
		}
		resp, err := p.Chat(ctx, messages, opts)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		// Only rate limiting is worth waiting out on the same provider.
		if !errors.Is(err, ErrRateLimit) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *Router) providerChain() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := make([]string, 0, 1+len(r.fallbacks))
	if r.primary != "" {
		chain = append(chain, r.primary)
	}
	for _, name := range r.fallbacks {
		if name != r.primary {
			chain = append(chain, name)
		}
	}
	return chain
}
