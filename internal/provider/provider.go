// Package provider defines the data-provider abstraction: a Provider
// owns one external data source's credentials and registers a Fetcher
// per statement type; a Registry routes fetch requests to providers and
// falls back across them. Adding a new upstream source means adding an
// adapter package under internal/providers, never branching inside the
// normalizer.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/seenimoa/finlens/pkg/models"
)

// Credential describes one credential a provider needs.
type Credential struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	EnvVar      string `json:"env_var"`
}

// Info holds metadata about a registered provider.
type Info struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Website     string       `json:"website"`
	Credentials []Credential `json:"credentials"`
	Models      []ModelType  `json:"models"`
}

// Provider is the interface all data providers implement.
type Provider interface {
	// Info returns metadata about this provider.
	Info() Info

	// Init validates and stores credentials. Called once before
	// registration; a missing required credential is an error.
	Init(credentials map[string]string) error

	// Fetcher returns the fetcher for a model type, or nil.
	Fetcher(model ModelType) Fetcher

	// SupportedModels lists every model type this provider serves.
	SupportedModels() []ModelType
}

// QueryParams is the parameter map passed to fetchers.
type QueryParams map[string]string

// Common query parameter keys.
const (
	ParamSymbol   = "symbol"
	ParamLimit    = "limit"
	ParamPeriod   = "period"
	ParamProvider = "provider"
)

// FetchResult wraps fetched data with provenance metadata.
type FetchResult struct {
	Provider  string                  `json:"provider"`
	Model     ModelType               `json:"model"`
	Signature models.RequestSignature `json:"-"`
	Data      any                     `json:"data"`
	FetchedAt time.Time               `json:"fetched_at"`
}

// Fetcher retrieves a single statement type from one provider. The data
// type of the result depends on the model:
//
//	ModelCompanyProfile   → *models.CompanyProfile
//	ModelIncomeStatement  → []models.IncomeStatement
//	ModelBalanceSheet     → []models.BalanceSheet
//	ModelCashFlow         → []models.CashFlow
//	ModelMarketSnapshot   → *models.MarketSnapshot
//	ModelCompanyHeadlines → []models.Headline
//	ModelEquityQuote      → *models.Quote
type Fetcher interface {
	ModelType() ModelType
	Description() string
	RequiredParams() []string

	// Fetch retrieves data for the given query parameters. It performs
	// exactly one upstream attempt; retries belong to the caller.
	Fetch(ctx context.Context, params QueryParams) (*FetchResult, error)
}

// ErrProviderNotFound is returned when a named provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}

// ErrModelNotSupported is returned when a provider has no fetcher for a
// model type.
type ErrModelNotSupported struct {
	Provider string
	Model    ModelType
}

func (e *ErrModelNotSupported) Error() string {
	return fmt.Sprintf("provider %q does not support model %q", e.Provider, e.Model)
}

// ErrMissingParam is returned when a required query parameter is absent.
type ErrMissingParam struct {
	Param string
}

func (e *ErrMissingParam) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// ErrInvalidCredentials is returned when provider credentials are absent
// or malformed.
type ErrInvalidCredentials struct {
	Provider string
	Detail   string
}

func (e *ErrInvalidCredentials) Error() string {
	return fmt.Sprintf("invalid credentials for provider %q: %s", e.Provider, e.Detail)
}

// ErrNotFound is returned when the upstream has no record for the
// subject (e.g. an unknown ticker). It is an application error, never
// retried.
type ErrNotFound struct {
	Provider string
	Model    ModelType
	Symbol   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("provider %q has no %s data for %q", e.Provider, e.Model, e.Symbol)
}

// ValidateParams checks that every required parameter is present.
func ValidateParams(params QueryParams, required []string) error {
	for _, key := range required {
		if v, ok := params[key]; !ok || v == "" {
			return &ErrMissingParam{Param: key}
		}
	}
	return nil
}

// Signature builds the request signature for a fetch, used as the
// response-cache key. The provider-override parameter is excluded from
// the parameter set; provenance is carried by the Provider field.
func Signature(providerName string, model ModelType, params QueryParams) models.RequestSignature {
	sig := models.RequestSignature{
		Provider: providerName,
		Endpoint: string(model),
		Symbol:   params[ParamSymbol],
		Params:   make(map[string]string, len(params)),
	}
	for k, v := range params {
		if k == ParamProvider || k == ParamSymbol {
			continue
		}
		sig.Params[k] = v
	}
	return sig
}
