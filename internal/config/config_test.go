package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Analysis.CacheTTLSeconds != 3600 {
		t.Errorf("CacheTTLSeconds = %d, want 3600", cfg.Analysis.CacheTTLSeconds)
	}
	if cfg.Analysis.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Analysis.MaxRetries)
	}
	if cfg.Analysis.RiskFreeRate != 0.04 {
		t.Errorf("RiskFreeRate = %v, want 0.04", cfg.Analysis.RiskFreeRate)
	}
	if cfg.Analysis.FallbackTaxRate != 0.21 {
		t.Errorf("FallbackTaxRate = %v, want 0.21", cfg.Analysis.FallbackTaxRate)
	}
	if cfg.LLM.Primary != "openai" {
		t.Errorf("LLM.Primary = %q, want openai", cfg.LLM.Primary)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
providers:
  fmp_key: file-key
analysis:
  risk_free_rate: 0.045
  max_retries: 5
api:
  port: 9090
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Providers.FMPKey != "file-key" {
		t.Errorf("FMPKey = %q, want file-key", cfg.Providers.FMPKey)
	}
	if cfg.Analysis.RiskFreeRate != 0.045 {
		t.Errorf("RiskFreeRate = %v, want 0.045", cfg.Analysis.RiskFreeRate)
	}
	if cfg.Analysis.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.Analysis.MaxRetries)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.API.Port)
	}
	// Values absent from the file keep their defaults.
	if cfg.Analysis.EquityRiskPremium != 0.05 {
		t.Errorf("EquityRiskPremium = %v, want default 0.05", cfg.Analysis.EquityRiskPremium)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("providers:\n  fmp_key: file-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FINLENS_PROVIDERS_FMP_KEY", "env-key")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Providers.FMPKey != "env-key" {
		t.Errorf("FMPKey = %q, want the env value to win", cfg.Providers.FMPKey)
	}
}

func TestCheckAPIKeys(t *testing.T) {
	cfg := &Config{}
	cfg.Providers.FMPKey = "abcdefghijklmnop"
	cfg.LLM.OpenAIKey = "short"

	statuses := CheckAPIKeys(cfg)
	byName := make(map[string]KeyStatus, len(statuses))
	for _, s := range statuses {
		byName[s.Name] = s
	}

	fmp := byName["FMP API Key"]
	if !fmp.IsSet {
		t.Error("FMP key should read as set")
	}
	if fmp.Masked != "abc...nop" {
		t.Errorf("Masked = %q, want abc...nop", fmp.Masked)
	}

	openai := byName["OpenAI API Key"]
	if openai.Masked != "***" {
		t.Errorf("short key Masked = %q, want ***", openai.Masked)
	}

	av := byName["Alpha Vantage API Key"]
	if av.IsSet || av.Source != KeySourceNone {
		t.Errorf("unset key status = %+v", av)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"12345678", "***"},
		{"123456789", "123...789"},
		{"sk-proj-abcdef12345", "sk-...345"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
