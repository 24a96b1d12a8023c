// Package providers initializes and registers the concrete data
// providers. Registration order is priority order: FMP is the default
// statement source, Alpha Vantage the fallback; the keyless scraper and
// newswire providers round out the market snapshot and headline models.
package providers

import (
	"fmt"

	"github.com/seenimoa/finlens/internal/config"
	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/internal/providers/alphavantage"
	"github.com/seenimoa/finlens/internal/providers/fmp"
	"github.com/seenimoa/finlens/internal/providers/newswire"
	"github.com/seenimoa/finlens/internal/providers/stockanalysis"
)

// RegisterAll registers every provider whose credentials are configured.
// At least one statement-capable provider (FMP or Alpha Vantage) must be
// available; otherwise no analysis can ever succeed and registration
// fails up front.
func RegisterAll(cfg *config.Config, reg *provider.Registry) error {
	statementSources := 0

	if cfg.Providers.FMPKey != "" {
		p := fmp.New()
		if err := p.Init(map[string]string{"api_key": cfg.Providers.FMPKey}); err != nil {
			return err
		}
		if err := reg.Register(p); err != nil {
			return err
		}
		statementSources++
	}

	if cfg.Providers.AlphaVantageKey != "" {
		p := alphavantage.New()
		if err := p.Init(map[string]string{"api_key": cfg.Providers.AlphaVantageKey}); err != nil {
			return err
		}
		if err := reg.Register(p); err != nil {
			return err
		}
		statementSources++
	}

	if statementSources == 0 {
		return fmt.Errorf("no statement provider configured: set FINLENS_PROVIDERS_FMP_KEY or FINLENS_PROVIDERS_ALPHAVANTAGE_KEY")
	}

	// Keyless providers always register.
	sa := stockanalysis.New()
	if err := sa.Init(nil); err != nil {
		return err
	}
	if err := reg.Register(sa); err != nil {
		return err
	}

	nw := newswire.New()
	if err := nw.Init(nil); err != nil {
		return err
	}
	return reg.Register(nw)
}
