package engine

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/finlens/internal/infra"
	"github.com/seenimoa/finlens/internal/provider"
)

// fetchSet is the join-point output of one orchestrated fan-out:
// results keyed by model type, present only for requests that
// succeeded. Optional failures are recorded, not fatal.
type fetchSet struct {
	mu      sync.Mutex
	results map[provider.ModelType]*provider.FetchResult
	missing map[provider.ModelType]error
}

func (s *fetchSet) put(model provider.ModelType, res *provider.FetchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[model] = res
}

func (s *fetchSet) miss(model provider.ModelType, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missing[model] = err
}

// fetchAll issues the required and optional requests concurrently. A
// required request that fails after retries cancels its siblings and
// aborts the orchestration; optional failures are recorded as absent.
func (e *Engine) fetchAll(ctx context.Context, symbol string, required, optional []provider.ModelType) (*fetchSet, error) {
	set := &fetchSet{
		results: make(map[provider.ModelType]*provider.FetchResult),
		missing: make(map[provider.ModelType]error),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, model := range required {
		g.Go(func() error {
			res, err := e.fetchOne(gctx, model, symbol)
			if err != nil {
				return &UpstreamUnavailableError{Statement: string(model), Err: err}
			}
			set.put(model, res)
			return nil
		})
	}
	for _, model := range optional {
		g.Go(func() error {
			res, err := e.fetchOne(gctx, model, symbol)
			if err != nil {
				set.miss(model, err)
				return nil
			}
			set.put(model, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

// fetchOne resolves a single model through the cache, then the registry
// with provider fallback, retrying transient failures per the policy.
// The cache key is the default provider's signature: a hit short-circuits
// the registry entirely, including retries.
func (e *Engine) fetchOne(ctx context.Context, model provider.ModelType, symbol string) (*provider.FetchResult, error) {
	params := provider.QueryParams{provider.ParamSymbol: symbol}

	var key string
	if names := e.registry.ProvidersFor(model); len(names) > 0 {
		key = provider.Signature(names[0], model, params).String()
	} else {
		return nil, fmt.Errorf("no provider registered for model %s", model)
	}

	if cached, ok := e.cache.Get(key); ok {
		return cached.(*provider.FetchResult), nil
	}

	var result *provider.FetchResult
	err := infra.Retry(ctx, e.retry, func(attemptCtx context.Context) error {
		res, err := e.registry.FetchWithFallback(attemptCtx, model, params)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if model == provider.ModelEquityQuote {
		e.cache.PutTTL(key, result, quoteCacheTTL)
	} else {
		e.cache.Put(key, result)
	}
	return result, nil
}
