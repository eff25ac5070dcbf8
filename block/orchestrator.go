package block

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/pageblocks/cache"
	"github.com/jonwraymond/pageblocks/observe"
)

var (
	// ErrNilProvider is reported when an Orchestrator has no provider.
	ErrNilProvider = errors.New("block: provider is nil")

	// ErrProviderPanic wraps a value recovered from a panicking provider.
	ErrProviderPanic = errors.New("block: provider panicked")
)

// Definition describes one block type to the Orchestrator.
type Definition[I, T any] struct {
	// Name is the block type, used as the cache key prefix.
	Name string

	// Params turns an input into named key parameters.
	Params func(in I) cache.Params

	// Validate is the block's validator, evaluated at now.
	Validate func(data T, now time.Time) ValidationResult
}

// Result is the uniform envelope returned for every retrieval. Data is the
// zero value unless Validation.Valid is true.
type Result[T any] struct {
	Data       T
	Validation ValidationResult
	FromCache  bool
}

// Option configures an Orchestrator.
type Option func(*settings)

type settings struct {
	keyer    cache.Keyer
	mw       *observe.Middleware
	coalesce bool
	now      func() time.Time
}

// WithKeyer overrides the key builder. Default: cache.DefaultKeyer.
func WithKeyer(k cache.Keyer) Option {
	return func(s *settings) {
		if k != nil {
			s.keyer = k
		}
	}
}

// WithMiddleware instruments every Get.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(s *settings) {
		if mw != nil {
			s.mw = mw
		}
	}
}

// WithCoalescing collapses concurrent misses on one key into a single
// provider call. Off by default: without it, concurrent misses may each
// call the provider.
func WithCoalescing() Option {
	return func(s *settings) {
		s.coalesce = true
	}
}

// WithClock overrides the time source passed to the validator.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// Orchestrator wires a key builder, a cache, a validator and a provider
// into one Get call.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: Get never returns or panics with a provider failure; failures
// arrive as a PROVIDER_ERROR validation entry.
// - Caching: only data that passed validation is ever cached.
type Orchestrator[I, T any] struct {
	def      Definition[I, T]
	provider Provider[I, T]
	store    *cache.Memory[T]
	keyer    cache.Keyer
	mw       *observe.Middleware
	now      func() time.Time
	group    *singleflight.Group
}

// NewOrchestrator creates an Orchestrator that owns store.
func NewOrchestrator[I, T any](def Definition[I, T], provider Provider[I, T], store *cache.Memory[T], opts ...Option) *Orchestrator[I, T] {
	s := settings{
		keyer: cache.NewDefaultKeyer(),
		mw:    observe.NopMiddleware(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}

	o := &Orchestrator[I, T]{
		def:      def,
		provider: provider,
		store:    store,
		keyer:    s.keyer,
		mw:       s.mw,
		now:      s.now,
	}
	if s.coalesce {
		o.group = &singleflight.Group{}
	}
	return o
}

// Name returns the block type name.
func (o *Orchestrator[I, T]) Name() string {
	return o.def.Name
}

// Cache returns the cache owned by the Orchestrator.
func (o *Orchestrator[I, T]) Cache() *cache.Memory[T] {
	return o.store
}

// Key returns the cache key for in. A key that cache.ValidateKey rejects,
// such as one built from very long or multi-line values, is replaced by
// its hashed form so every input still maps to a storable key.
func (o *Orchestrator[I, T]) Key(in I) string {
	params := o.def.Params(in)
	key := o.keyer.Key(o.def.Name, params)
	if cache.ValidateKey(key) != nil {
		return hashedKeyer.Key(o.def.Name, params)
	}
	return key
}

var hashedKeyer = cache.NewHashedKeyer()

// Get returns the block for in.
//
// A cache hit is re-validated before it is returned. A miss calls the
// provider, validates the result, and caches it only if it is valid.
func (o *Orchestrator[I, T]) Get(ctx context.Context, in I) Result[T] {
	key := o.Key(in)

	var res Result[T]
	o.mw.Wrap(func(ctx context.Context, _ observe.BlockMeta) observe.Outcome {
		res = o.get(ctx, key, in)
		return outcomeOf(res)
	})(ctx, observe.BlockMeta{Type: o.def.Name, Key: key})

	return res
}

func (o *Orchestrator[I, T]) get(ctx context.Context, key string, in I) Result[T] {
	if cached, ok := o.store.Get(key); ok {
		validation := o.def.Validate(cached, o.now())
		if !validation.Valid {
			// Rules or the clock moved on since this was stored.
			o.store.Delete(key)
			return Result[T]{Validation: validation, FromCache: true}
		}
		return Result[T]{Data: cached, Validation: validation, FromCache: true}
	}

	data, err := o.fetch(ctx, key, in)
	if err != nil {
		return Result[T]{Validation: ProviderFailure(err)}
	}

	validation := o.def.Validate(data, o.now())
	if !validation.Valid {
		return Result[T]{Validation: validation}
	}

	o.store.Set(key, data)
	return Result[T]{Data: data, Validation: validation}
}

func (o *Orchestrator[I, T]) fetch(ctx context.Context, key string, in I) (T, error) {
	if o.group == nil {
		return o.callProvider(ctx, in)
	}

	v, err, _ := o.group.Do(key, func() (any, error) {
		return o.callProvider(ctx, in)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	data, _ := v.(T)
	return data, nil
}

func (o *Orchestrator[I, T]) callProvider(ctx context.Context, in I) (data T, err error) {
	if o.provider == nil {
		return data, ErrNilProvider
	}

	defer func() {
		if r := recover(); r != nil {
			var zero T
			data, err = zero, fmt.Errorf("%w: %v", ErrProviderPanic, r)
		}
	}()

	return o.provider.Fetch(ctx, in)
}

// Warm runs Get for every input with at most limit calls in flight
// (limit <= 0 means unbounded). Results are in input order.
func (o *Orchestrator[I, T]) Warm(ctx context.Context, inputs []I, limit int) []Result[T] {
	results := make([]Result[T], len(inputs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, in := range inputs {
		g.Go(func() error {
			results[i] = o.Get(ctx, in)
			return nil
		})
	}
	_ = g.Wait() // Get never fails

	return results
}

func outcomeOf[T any](res Result[T]) observe.Outcome {
	return observe.Outcome{
		FromCache:     res.FromCache,
		Valid:         res.Validation.Valid,
		ProviderError: res.Validation.Has(CodeProviderError),
		Codes:         res.Validation.Codes(),
	}
}
