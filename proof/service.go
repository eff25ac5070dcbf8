package proof

import (
	"context"
	"time"

	"github.com/jonwraymond/pageblocks/block"
	"github.com/jonwraymond/pageblocks/cache"
)

// DefaultCacheConfig is 6 hours, at most 500 slots.
func DefaultCacheConfig() cache.Config {
	return cache.Config{TTL: 6 * time.Hour, MaxSize: 500}
}

// Definition describes ProofSlot to a block.Orchestrator. Absent scope
// fields key as empty strings and an absent type keys as DefaultType.
func Definition() block.Definition[Input, *Slot] {
	return block.Definition[Input, *Slot]{
		Name: KeyPrefix,
		Params: func(in Input) cache.Params {
			return cache.Params{
				"city":     in.City,
				"service":  in.Service,
				"industry": in.Industry,
				"type":     string(in.SlotType()),
			}
		},
		Validate: ValidateAt,
	}
}

// Service is the entry point for ProofSlot retrieval. It owns one cache.
type Service struct {
	orch *block.Orchestrator[Input, *Slot]
}

// NewService creates a Service over provider with a fresh cache built
// from cfg.
func NewService(provider Provider, cfg cache.Config, opts ...block.Option) *Service {
	return NewServiceWithCache(provider, cache.New[*Slot](cfg), opts...)
}

// NewServiceWithCache creates a Service that uses store.
func NewServiceWithCache(provider Provider, store *cache.Memory[*Slot], opts ...block.Option) *Service {
	return &Service{orch: block.NewOrchestrator(Definition(), provider, store, opts...)}
}

// Get returns the slot for in. Data is nil unless the slot is valid. The
// slot is shared with the cache and the provider; callers must not mutate it.
func (s *Service) Get(ctx context.Context, in Input) block.Result[*Slot] {
	return s.orch.Get(ctx, in)
}

// Warm fetches many slots with at most limit in flight.
func (s *Service) Warm(ctx context.Context, inputs []Input, limit int) []block.Result[*Slot] {
	return s.orch.Warm(ctx, inputs, limit)
}

// Cache returns the service's cache.
func (s *Service) Cache() *cache.Memory[*Slot] {
	return s.orch.Cache()
}

// Name returns the block type name.
func (s *Service) Name() string {
	return s.orch.Name()
}
