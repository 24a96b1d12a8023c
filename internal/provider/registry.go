package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Registry is a thread-safe registry of data providers. It maintains an
// index of which providers serve which model types, in registration
// order; the first registered provider for a model is its default.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	modelIdx  map[ModelType][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		modelIdx:  make(map[ModelType][]string),
	}
}

// Register adds an initialized provider. Re-registering a name
// overwrites the previous entry but keeps its index position.
func (r *Registry) Register(p Provider) error {
	info := p.Info()
	if info.Name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.providers[info.Name]
	r.providers[info.Name] = p
	if existed {
		return nil
	}
	for _, model := range p.SupportedModels() {
		r.modelIdx[model] = append(r.modelIdx[model], info.Name)
	}
	return nil
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return p, nil
}

// List returns metadata for all registered providers, sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.providers))
	for _, p := range r.providers {
		infos = append(infos, p.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// ProvidersFor returns provider names serving a model, in priority order.
func (r *Registry) ProvidersFor(model ModelType) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.modelIdx[model]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Fetch retrieves data for a model using the provider named in params,
// or the model's default provider when none is named.
func (r *Registry) Fetch(ctx context.Context, model ModelType, params QueryParams) (*FetchResult, error) {
	name := params[ParamProvider]

	r.mu.RLock()
	if name == "" {
		if idx := r.modelIdx[model]; len(idx) > 0 {
			name = idx[0]
		}
	}
	p, ok := r.providers[name]
	r.mu.RUnlock()

	if !ok || name == "" {
		return nil, &ErrProviderNotFound{Name: name}
	}

	fetcher := p.Fetcher(model)
	if fetcher == nil {
		return nil, &ErrModelNotSupported{Provider: name, Model: model}
	}
	if err := ValidateParams(params, fetcher.RequiredParams()); err != nil {
		return nil, err
	}

	result, err := fetcher.Fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("provider %q fetch %s: %w", name, model, err)
	}

	result.Provider = name
	result.Model = model
	result.Signature = Signature(name, model, params)
	if result.FetchedAt.IsZero() {
		result.FetchedAt = time.Now()
	}
	return result, nil
}

// FetchWithFallback tries the preferred provider, then every other
// provider serving the model in priority order. Fallback stops at the
// first success; the last error is wrapped when all fail. Context
// cancellation stops the chain immediately.
func (r *Registry) FetchWithFallback(ctx context.Context, model ModelType, params QueryParams) (*FetchResult, error) {
	result, err := r.Fetch(ctx, model, params)
	if err == nil {
		return result, nil
	}

	tried := params[ParamProvider]
	order := r.ProvidersFor(model)
	if tried == "" && len(order) > 0 {
		tried = order[0] // the default, already attempted above
	}
	for _, name := range order {
		if name == tried {
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		next := make(QueryParams, len(params))
		for k, v := range params {
			next[k] = v
		}
		next[ParamProvider] = name

		if result, err2 := r.Fetch(ctx, model, next); err2 == nil {
			return result, nil
		} else {
			err = err2
		}
	}
	return nil, fmt.Errorf("all providers failed for model %s: %w", model, err)
}
