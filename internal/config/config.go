// Package config handles configuration loading for finlens.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"  yaml:"analysis"`
	LLM       LLMConfig       `mapstructure:"llm"       yaml:"llm"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ProvidersConfig holds upstream data provider credentials.
type ProvidersConfig struct {
	FMPKey          string `mapstructure:"fmp_key"          yaml:"fmp_key"`
	AlphaVantageKey string `mapstructure:"alphavantage_key" yaml:"alphavantage_key"`
}

// AnalysisConfig holds fetch orchestration and analytics settings.
type AnalysisConfig struct {
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds"   yaml:"cache_ttl_seconds"`
	MaxRetries        int     `mapstructure:"max_retries"         yaml:"max_retries"`
	RiskFreeRate      float64 `mapstructure:"risk_free_rate"      yaml:"risk_free_rate"`
	EquityRiskPremium float64 `mapstructure:"equity_risk_premium" yaml:"equity_risk_premium"`
	FallbackTaxRate   float64 `mapstructure:"fallback_tax_rate"   yaml:"fallback_tax_rate"`
}

// LLMConfig holds narrative service configuration.
type LLMConfig struct {
	Primary     string  `mapstructure:"primary"     yaml:"primary"` // "openai" or "gemini"
	OpenAIKey   string  `mapstructure:"openai_key"  yaml:"openai_key"`
	GeminiKey   string  `mapstructure:"gemini_key"  yaml:"gemini_key"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finlens/config.yaml (home directory)
//  3. /etc/finlens/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINLENS_<SECTION>_<KEY>, e.g., FINLENS_PROVIDERS_FMP_KEY
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finlens"))
	v.AddConfigPath("/etc/finlens")

	v.SetEnvPrefix("FINLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found: defaults + env vars only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FINLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Analysis defaults
	v.SetDefault("analysis.cache_ttl_seconds", 3600) // 1 hour
	v.SetDefault("analysis.max_retries", 3)
	v.SetDefault("analysis.risk_free_rate", 0.04)
	v.SetDefault("analysis.equity_risk_premium", 0.05)
	v.SetDefault("analysis.fallback_tax_rate", 0.21)

	// LLM defaults
	v.SetDefault("llm.primary", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 1500)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FINLENS_PROVIDERS_FMP_KEY"); key != "" {
		cfg.Providers.FMPKey = key
	}
	if key := os.Getenv("FINLENS_PROVIDERS_ALPHAVANTAGE_KEY"); key != "" {
		cfg.Providers.AlphaVantageKey = key
	}
	if key := os.Getenv("FINLENS_LLM_OPENAI_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv("FINLENS_LLM_GEMINI_KEY"); key != "" {
		cfg.LLM.GeminiKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
