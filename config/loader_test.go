package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
	if cfg.Blocks.LocalDataCard.TTL != 24*time.Hour || cfg.Blocks.LocalDataCard.MaxSize != 1000 {
		t.Errorf("local data card = %+v", cfg.Blocks.LocalDataCard)
	}
	if cfg.Blocks.IndustryKpiMap.TTL != 12*time.Hour || cfg.Blocks.ProofSlot.TTL != 6*time.Hour {
		t.Errorf("blocks = %+v", cfg.Blocks)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "pageblocks.yaml", `
blocks:
  proof_slot:
    ttl: 30m
    max_size: 50
  industry_kpi_map:
    ttl: 3600
  coalesce: true
seeds:
  proof_slot: /data/proof.json
resilience:
  enabled: true
  max_attempts: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if got := cfg.Blocks.ProofSlot; got.TTL != 30*time.Minute || got.MaxSize != 50 {
		t.Errorf("proof slot = %+v", got)
	}
	if got := cfg.Blocks.IndustryKpiMap.TTL; got != time.Hour {
		t.Errorf("industry kpi ttl = %v, want 1h", got)
	}
	if got := cfg.Blocks.LocalDataCard.TTL; got != 24*time.Hour {
		t.Errorf("untouched ttl = %v, want default", got)
	}
	if !cfg.Blocks.Coalesce {
		t.Error("coalesce not set")
	}
	if cfg.Seeds.ProofSlot != "/data/proof.json" {
		t.Errorf("seeds = %+v", cfg.Seeds)
	}
	if !cfg.Resilience.Enabled || cfg.Resilience.MaxAttempts != 5 || cfg.Resilience.Timeout != 10*time.Second {
		t.Errorf("resilience = %+v", cfg.Resilience)
	}
}

func TestLoad_RateLimit(t *testing.T) {
	path := writeFile(t, "pageblocks.yaml", `
resilience:
  enabled: true
  rate_limit:
    rate: 2.5
    burst: 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	rl := cfg.Resilience.RateLimit
	if rl.Rate != 2.5 || rl.Burst != 4 || rl.MaxWait != time.Second {
		t.Errorf("rate limit = %+v", rl)
	}

	t.Setenv("PAGEBLOCKS_RESILIENCE_RATE_LIMIT_BURST", "0")
	_, err = Load(path)
	var fe FieldError
	if !errors.As(err, &fe) || fe.Field != "resilience.rate_limit.burst" {
		t.Fatalf("error = %v, want field error on resilience.rate_limit.burst", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "pageblocks.toml", `
[blocks.local_data_card]
ttl = "2h"
max_size = 10

[observe]
service_name = "landing-pages"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if got := cfg.Blocks.LocalDataCard; got.TTL != 2*time.Hour || got.MaxSize != 10 {
		t.Errorf("local data card = %+v", got)
	}
	if cfg.Observe.ServiceName != "landing-pages" {
		t.Errorf("service name = %q", cfg.Observe.ServiceName)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "pageblocks.yaml", "blocks:\n  proof_slot:\n    ttl: 30m\n")
	t.Setenv("PAGEBLOCKS_BLOCKS_PROOF_SLOT_TTL", "45m")
	t.Setenv("PAGEBLOCKS_BLOCKS_LOCAL_DATA_CARD_MAX_SIZE", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if got := cfg.Blocks.ProofSlot.TTL; got != 45*time.Minute {
		t.Errorf("proof ttl = %v, want 45m", got)
	}
	if got := cfg.Blocks.LocalDataCard.MaxSize; got != 7 {
		t.Errorf("local max size = %d, want 7", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "blocks:\n  proof_slot:\n    ttl: soon\n")
		if _, err := Load(path); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("zero ttl", func(t *testing.T) {
		path := writeFile(t, "zero.yaml", "blocks:\n  proof_slot:\n    ttl: 0\n")
		_, err := Load(path)
		var fe FieldError
		if !errors.As(err, &fe) || fe.Field != "blocks.proof_slot.ttl" {
			t.Fatalf("error = %v, want field error on blocks.proof_slot.ttl", err)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative max size", func(c *Config) { c.Blocks.IndustryKpiMap.MaxSize = -1 }, "blocks.industry_kpi_map.max_size"},
		{"negative warm", func(c *Config) { c.Blocks.WarmConcurrency = -1 }, "blocks.warm_concurrency"},
		{"no attempts", func(c *Config) {
			c.Resilience.Enabled = true
			c.Resilience.MaxAttempts = 0
		}, "resilience.max_attempts"},
		{"no timeout", func(c *Config) {
			c.Resilience.Enabled = true
			c.Resilience.Timeout = 0
		}, "resilience.timeout"},
		{"no breaker threshold", func(c *Config) {
			c.Resilience.Enabled = true
			c.Resilience.Breaker.MaxFailures = 0
		}, "resilience.breaker.max_failures"},
		{"negative rate", func(c *Config) {
			c.Resilience.Enabled = true
			c.Resilience.RateLimit.Rate = -1
		}, "resilience.rate_limit.rate"},
		{"rate without burst", func(c *Config) {
			c.Resilience.Enabled = true
			c.Resilience.RateLimit.Rate = 5
			c.Resilience.RateLimit.Burst = 0
		}, "resilience.rate_limit.burst"},
		{"negative max wait", func(c *Config) {
			c.Resilience.Enabled = true
			c.Resilience.RateLimit.MaxWait = -time.Second
		}, "resilience.rate_limit.max_wait"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			var fe FieldError
			if err := cfg.Validate(); !errors.As(err, &fe) || fe.Field != tt.field {
				t.Fatalf("Validate = %v, want field %s", err, tt.field)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
	var nilCfg *Config
	if err := nilCfg.Validate(); !errors.Is(err, ErrNilConfig) {
		t.Errorf("nil Validate = %v", err)
	}

	cfg := Default()
	cfg.Observe.ServiceName = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty service name accepted")
	}
}
