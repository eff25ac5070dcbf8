package localdata

import (
	"context"
	"time"

	"github.com/jonwraymond/pageblocks/block"
	"github.com/jonwraymond/pageblocks/cache"
)

// DefaultCacheConfig is 24 hours, at most 1000 cards.
func DefaultCacheConfig() cache.Config {
	return cache.Config{TTL: 24 * time.Hour, MaxSize: 1000}
}

// Definition describes LocalDataCard to a block.Orchestrator.
func Definition() block.Definition[Input, *Card] {
	return block.Definition[Input, *Card]{
		Name: KeyPrefix,
		Params: func(in Input) cache.Params {
			return cache.Params{"city": in.City, "state": in.State, "service": in.Service}
		},
		Validate: ValidateAt,
	}
}

// Service is the entry point for LocalDataCard retrieval. It owns one cache.
type Service struct {
	orch *block.Orchestrator[Input, *Card]
}

// NewService creates a Service over provider with a fresh cache built
// from cfg.
func NewService(provider Provider, cfg cache.Config, opts ...block.Option) *Service {
	return NewServiceWithCache(provider, cache.New[*Card](cfg), opts...)
}

// NewServiceWithCache creates a Service that uses store.
func NewServiceWithCache(provider Provider, store *cache.Memory[*Card], opts ...block.Option) *Service {
	return &Service{orch: block.NewOrchestrator(Definition(), provider, store, opts...)}
}

// Get returns the card for in. Data is nil unless the card is valid. The
// card is shared with the cache and the provider; callers must not mutate it.
func (s *Service) Get(ctx context.Context, in Input) block.Result[*Card] {
	return s.orch.Get(ctx, in)
}

// Warm fetches many cards with at most limit in flight.
func (s *Service) Warm(ctx context.Context, inputs []Input, limit int) []block.Result[*Card] {
	return s.orch.Warm(ctx, inputs, limit)
}

// Cache returns the service's cache.
func (s *Service) Cache() *cache.Memory[*Card] {
	return s.orch.Cache()
}

// Name returns the block type name.
func (s *Service) Name() string {
	return s.orch.Name()
}
