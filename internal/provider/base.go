package provider

import (
	"context"

	"github.com/seenimoa/finlens/internal/infra"
)

// BaseFetcher provides the shared plumbing for fetcher implementations:
// model metadata and the outbound rate budget. Embed it in concrete
// fetchers. Response caching is deliberately not here — the cache sits
// in front of the orchestration (internal/engine), so a hit skips the
// fetcher entirely.
type BaseFetcher struct {
	model       ModelType
	description string
	required    []string
	budget      *infra.Budget
	destination string
}

// NewBaseFetcher creates a base fetcher. budget may be shared across all
// fetchers of one provider; destination is the budget key, normally the
// provider's API host.
func NewBaseFetcher(model ModelType, desc string, required []string, budget *infra.Budget, destination string) BaseFetcher {
	return BaseFetcher{
		model:       model,
		description: desc,
		required:    required,
		budget:      budget,
		destination: destination,
	}
}

func (b *BaseFetcher) ModelType() ModelType     { return b.model }
func (b *BaseFetcher) Description() string      { return b.description }
func (b *BaseFetcher) RequiredParams() []string { return b.required }

// AwaitBudget blocks until the provider's outbound rate budget grants a
// slot, or the context is cancelled.
func (b *BaseFetcher) AwaitBudget(ctx context.Context) error {
	if b.budget == nil {
		return nil
	}
	return b.budget.Wait(ctx, b.destination)
}

// BaseProvider provides common Provider behavior: credential validation
// and the fetcher table. Embed it in concrete providers.
type BaseProvider struct {
	info        Info
	fetchers    map[ModelType]Fetcher
	credentials map[string]string
}

// NewBaseProvider creates a base provider with the given metadata.
func NewBaseProvider(name, description, website string, creds []Credential) BaseProvider {
	return BaseProvider{
		info: Info{
			Name:        name,
			Description: description,
			Website:     website,
			Credentials: creds,
		},
		fetchers:    make(map[ModelType]Fetcher),
		credentials: make(map[string]string),
	}
}

func (bp *BaseProvider) Info() Info { return bp.info }

// Init validates required credentials and stores them.
func (bp *BaseProvider) Init(credentials map[string]string) error {
	for _, cred := range bp.info.Credentials {
		if cred.Required {
			if v, ok := credentials[cred.Name]; !ok || v == "" {
				return &ErrInvalidCredentials{
					Provider: bp.info.Name,
					Detail:   "missing required credential: " + cred.Name,
				}
			}
		}
	}
	bp.credentials = credentials
	return nil
}

func (bp *BaseProvider) Fetcher(model ModelType) Fetcher {
	return bp.fetchers[model]
}

func (bp *BaseProvider) SupportedModels() []ModelType {
	out := make([]ModelType, 0, len(bp.fetchers))
	for m := range bp.fetchers {
		out = append(out, m)
	}
	return out
}

// RegisterFetcher adds a fetcher and refreshes the advertised model list.
func (bp *BaseProvider) RegisterFetcher(f Fetcher) {
	bp.fetchers[f.ModelType()] = f
	bp.info.Models = bp.SupportedModels()
}

// Credential returns a stored credential value.
func (bp *BaseProvider) Credential(name string) string {
	return bp.credentials[name]
}
