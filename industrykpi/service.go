package industrykpi

import (
	"context"
	"time"

	"github.com/jonwraymond/pageblocks/block"
	"github.com/jonwraymond/pageblocks/cache"
)

// DefaultCacheConfig is 12 hours, at most 500 maps.
func DefaultCacheConfig() cache.Config {
	return cache.Config{TTL: 12 * time.Hour, MaxSize: 500}
}

// Definition describes IndustryKpiMap to a block.Orchestrator.
func Definition() block.Definition[Input, *Map] {
	return block.Definition[Input, *Map]{
		Name: KeyPrefix,
		Params: func(in Input) cache.Params {
			return cache.Params{"industry": in.Industry, "service": in.Service}
		},
		Validate: ValidateAt,
	}
}

// Service is the entry point for IndustryKpiMap retrieval. It owns one cache.
type Service struct {
	orch *block.Orchestrator[Input, *Map]
}

// NewService creates a Service over provider with a fresh cache built
// from cfg.
func NewService(provider Provider, cfg cache.Config, opts ...block.Option) *Service {
	return NewServiceWithCache(provider, cache.New[*Map](cfg), opts...)
}

// NewServiceWithCache creates a Service that uses store.
func NewServiceWithCache(provider Provider, store *cache.Memory[*Map], opts ...block.Option) *Service {
	return &Service{orch: block.NewOrchestrator(Definition(), provider, store, opts...)}
}

// Get returns the map for in. Data is nil unless the map is valid. The map
// is shared with the cache and the provider; callers must not mutate it.
func (s *Service) Get(ctx context.Context, in Input) block.Result[*Map] {
	return s.orch.Get(ctx, in)
}

// Warm fetches many maps with at most limit in flight.
func (s *Service) Warm(ctx context.Context, inputs []Input, limit int) []block.Result[*Map] {
	return s.orch.Warm(ctx, inputs, limit)
}

// Cache returns the service's cache.
func (s *Service) Cache() *cache.Memory[*Map] {
	return s.orch.Cache()
}

// Name returns the block type name.
func (s *Service) Name() string {
	return s.orch.Name()
}
