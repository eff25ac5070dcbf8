package config

import (
	"time"

	"github.com/jonwraymond/pageblocks/cache"
	"github.com/jonwraymond/pageblocks/observe"
	"github.com/jonwraymond/pageblocks/resilience"
)

// Config is the full configuration.
type Config struct {
	Blocks     Blocks            `mapstructure:"blocks"`
	Observe    observe.Config    `mapstructure:"observe"`
	Resilience resilience.Config `mapstructure:"resilience"`
	Seeds      Seeds             `mapstructure:"seeds"`
}

// Blocks configures the three block services.
type Blocks struct {
	LocalDataCard  Block `mapstructure:"local_data_card"`
	IndustryKpiMap Block `mapstructure:"industry_kpi_map"`
	ProofSlot      Block `mapstructure:"proof_slot"`

	// Coalesce collapses concurrent misses on one key into one fetch.
	Coalesce bool `mapstructure:"coalesce"`

	// HashKeys stores keys as digests instead of readable parameter lists.
	HashKeys bool `mapstructure:"hash_keys"`

	// WarmConcurrency bounds in-flight fetches during Warm. Zero means
	// unbounded.
	WarmConcurrency int `mapstructure:"warm_concurrency"`
}

type namedBlock struct {
	key string
	Block
}

func (b Blocks) named() []namedBlock {
	return []namedBlock{
		{"blocks.local_data_card", b.LocalDataCard},
		{"blocks.industry_kpi_map", b.IndustryKpiMap},
		{"blocks.proof_slot", b.ProofSlot},
	}
}

// Block configures one block cache.
type Block struct {
	TTL     time.Duration `mapstructure:"ttl"`
	MaxSize int           `mapstructure:"max_size"`
	Persist bool          `mapstructure:"persist"`
}

// Cache converts b into a cache configuration.
func (b Block) Cache() cache.Config {
	return cache.Config{TTL: b.TTL, MaxSize: b.MaxSize, Persist: b.Persist}
}

// Seeds names optional seed files. An empty path means no seed provider.
type Seeds struct {
	LocalDataCard  string `mapstructure:"local_data_card"`
	IndustryKpiMap string `mapstructure:"industry_kpi_map"`
	ProofSlot      string `mapstructure:"proof_slot"`
}
