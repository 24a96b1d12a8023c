package llm

import (
	"time"

	"github.com/seenimoa/finlens/internal/config"
)

// NewRouterFromConfig creates a configured Router from the application
// config, registering each backend whose API key is set. A router with
// no backends is still valid; callers check Registered() and skip the
// narrative step.
func NewRouterFromConfig(cfg *config.Config) *Router {
	router := NewRouter(cfg.LLM.Primary,
		WithMaxRetries(2),
		WithRetryDelay(time.Second),
	)

	var fallbacks []string

	if cfg.LLM.OpenAIKey != "" {
		if p, err := NewOpenAIProvider(cfg.LLM.OpenAIKey, WithOpenAIModel(cfg.LLM.Model)); err == nil {
			router.RegisterProvider(p)
			if cfg.LLM.Primary != ProviderOpenAI {
				fallbacks = append(fallbacks, ProviderOpenAI)
			}
		}
	}

	if cfg.LLM.GeminiKey != "" {
		model := cfg.LLM.Model
		if cfg.LLM.Primary != ProviderGemini {
			model = "gemini-2.0-flash"
		}
		if p, err := NewGeminiProvider(cfg.LLM.GeminiKey, WithGeminiModel(model)); err == nil {
			router.RegisterProvider(p)
			if cfg.LLM.Primary != ProviderGemini {
				fallbacks = append(fallbacks, ProviderGemini)
			}
		}
	}

	router.fallbacks = fallbacks
	return router
}
