package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/jonwraymond/pageblocks/cache"
	"github.com/jonwraymond/pageblocks/industrykpi"
	"github.com/jonwraymond/pageblocks/localdata"
	"github.com/jonwraymond/pageblocks/observe"
	"github.com/jonwraymond/pageblocks/proof"
	"github.com/jonwraymond/pageblocks/resilience"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PAGEBLOCKS"

// Load reads path (if non-empty), applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with no file and no
// environment.
func Default() *Config {
	return &Config{
		Blocks: Blocks{
			LocalDataCard:   fromCache(localdata.DefaultCacheConfig()),
			IndustryKpiMap:  fromCache(industrykpi.DefaultCacheConfig()),
			ProofSlot:       fromCache(proof.DefaultCacheConfig()),
			WarmConcurrency: 8,
		},
		Observe:    defaultObserve(),
		Resilience: defaultResilience(),
	}
}

func defaultObserve() observe.Config {
	return observe.Config{
		ServiceName: "pageblocks",
		Tracing:     observe.TracingConfig{Exporter: "none", SamplePct: 1.0},
		Metrics:     observe.MetricsConfig{Exporter: "none"},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}
}

func defaultResilience() resilience.Config {
	var r resilience.Config
	r.MaxAttempts = 3
	r.InitialDelay = 100 * time.Millisecond
	r.MaxDelay = 2 * time.Second
	r.Timeout = 10 * time.Second
	r.Breaker.MaxFailures = 5
	r.Breaker.ResetTimeout = 30 * time.Second
	r.RateLimit.Burst = 10
	r.RateLimit.MaxWait = time.Second
	return r
}

func fromCache(c cache.Config) Block {
	return Block{TTL: c.TTL, MaxSize: c.MaxSize, Persist: c.Persist}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	for _, b := range d.Blocks.named() {
		v.SetDefault(b.key+".ttl", b.TTL)
		v.SetDefault(b.key+".max_size", b.MaxSize)
		v.SetDefault(b.key+".persist", b.Persist)
	}
	v.SetDefault("blocks.coalesce", d.Blocks.Coalesce)
	v.SetDefault("blocks.hash_keys", d.Blocks.HashKeys)
	v.SetDefault("blocks.warm_concurrency", d.Blocks.WarmConcurrency)

	v.SetDefault("observe.service_name", d.Observe.ServiceName)
	v.SetDefault("observe.version", d.Observe.Version)
	v.SetDefault("observe.tracing.enabled", d.Observe.Tracing.Enabled)
	v.SetDefault("observe.tracing.exporter", d.Observe.Tracing.Exporter)
	v.SetDefault("observe.tracing.sample_pct", d.Observe.Tracing.SamplePct)
	v.SetDefault("observe.metrics.enabled", d.Observe.Metrics.Enabled)
	v.SetDefault("observe.metrics.exporter", d.Observe.Metrics.Exporter)
	v.SetDefault("observe.logging.enabled", d.Observe.Logging.Enabled)
	v.SetDefault("observe.logging.level", d.Observe.Logging.Level)

	v.SetDefault("resilience.enabled", d.Resilience.Enabled)
	v.SetDefault("resilience.max_attempts", d.Resilience.MaxAttempts)
	v.SetDefault("resilience.initial_delay", d.Resilience.InitialDelay)
	v.SetDefault("resilience.max_delay", d.Resilience.MaxDelay)
	v.SetDefault("resilience.timeout", d.Resilience.Timeout)
	v.SetDefault("resilience.breaker.max_failures", d.Resilience.Breaker.MaxFailures)
	v.SetDefault("resilience.breaker.reset_timeout", d.Resilience.Breaker.ResetTimeout)
	v.SetDefault("resilience.rate_limit.rate", d.Resilience.RateLimit.Rate)
	v.SetDefault("resilience.rate_limit.burst", d.Resilience.RateLimit.Burst)
	v.SetDefault("resilience.rate_limit.max_wait", d.Resilience.RateLimit.MaxWait)

	v.SetDefault("seeds.local_data_card", "")
	v.SetDefault("seeds.industry_kpi_map", "")
	v.SetDefault("seeds.proof_slot", "")
}

// durationDecodeHook accepts "90s"-style strings and plain numbers of
// seconds.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	target := reflect.TypeOf(time.Duration(0))

	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != target {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				return time.Duration(0), nil
			}
			if d, err := time.ParseDuration(v); err == nil {
				return d, nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return time.Duration(seconds * float64(time.Second)), nil
			}
			return nil, fmt.Errorf("invalid duration %q", v)
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case time.Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported duration type %T", data)
		}
	}
}
