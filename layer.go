package pageblocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/pageblocks/block"
	"github.com/jonwraymond/pageblocks/cache"
	"github.com/jonwraymond/pageblocks/config"
	"github.com/jonwraymond/pageblocks/health"
	"github.com/jonwraymond/pageblocks/industrykpi"
	"github.com/jonwraymond/pageblocks/localdata"
	"github.com/jonwraymond/pageblocks/observe"
	"github.com/jonwraymond/pageblocks/proof"
	"github.com/jonwraymond/pageblocks/resilience"
	"github.com/jonwraymond/pageblocks/seedfile"
)

// Option configures a Layer.
type Option func(*options)

type options struct {
	observer      observe.Observer
	now           func() time.Time
	healthTimeout time.Duration
}

// WithObserver uses obs instead of building one from the configuration.
// The Layer does not shut a supplied observer down.
func WithObserver(obs observe.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithClock overrides the time source of every cache and validator.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithHealthTimeout bounds a full health run. Default: 5s
func WithHealthTimeout(d time.Duration) Option {
	return func(o *options) {
		o.healthTimeout = d
	}
}

// Layer owns the three block services and their shared infrastructure.
//
// Contract:
// - Concurrency: safe for concurrent use once New returns.
// - Ownership: Shutdown releases the observer only if the Layer built it.
type Layer struct {
	cfg    *config.Config
	obs    observe.Observer
	ownObs bool
	logger observe.Logger

	localData   *localdata.Service
	industryKPI *industrykpi.Service
	proof       *proof.Service

	health   *health.Aggregator
	backends map[string]string

	shutdownOnce sync.Once
	shutdownErr  error
}

// New builds a Layer from cfg. A nil cfg means config.Default().
func New(ctx context.Context, cfg *config.Config, backends Backends, opts ...Option) (*Layer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	l := &Layer{
		cfg:      cfg,
		obs:      o.observer,
		backends: make(map[string]string, 3),
		health:   health.NewAggregator(health.AggregatorConfig{Timeout: o.healthTimeout}),
	}
	if l.obs == nil {
		obs, err := observe.NewObserver(ctx, cfg.Observe)
		if err != nil {
			return nil, fmt.Errorf("pageblocks: observer: %w", err)
		}
		l.obs, l.ownObs = obs, true
	}
	l.logger = l.obs.Logger()

	if err := l.build(ctx, backends, o.now); err != nil {
		_ = l.Shutdown(ctx)
		return nil, err
	}
	return l, nil
}

func (l *Layer) build(ctx context.Context, b Backends, now func() time.Time) error {
	mw, err := observe.MiddlewareFromObserver(l.obs)
	if err != nil {
		return fmt.Errorf("pageblocks: middleware: %w", err)
	}

	blockOpts := []block.Option{block.WithMiddleware(mw)}
	var cacheOpts []cache.Option
	if l.cfg.Blocks.Coalesce {
		blockOpts = append(blockOpts, block.WithCoalescing())
	}
	if l.cfg.Blocks.HashKeys {
		blockOpts = append(blockOpts, block.WithKeyer(cache.NewHashedKeyer()))
	}
	if now != nil {
		blockOpts = append(blockOpts, block.WithClock(now))
		cacheOpts = append(cacheOpts, cache.WithClock(now))
	}

	localProvider, err := resolveBlock(ctx, l, localdata.KeyPrefix, source[localdata.Input, *localdata.Card]{
		provider: b.LocalData,
		adapter:  b.LocalDataAdapter,
		seedPath: l.cfg.Seeds.LocalDataCard,
		loadSeed: func(path string) (localdata.Provider, error) {
			cards, err := seedfile.LocalDataCards(path)
			if err != nil {
				return nil, err
			}
			return localdata.NewSeedProvider(cards), nil
		},
		newAdapter: func(fn block.AdapterFunc[localdata.Input]) localdata.Provider {
			return localdata.NewAdapterProvider(fn)
		},
		stub: func() localdata.Provider { return localdata.NewStubProvider() },
	})
	if err != nil {
		return err
	}
	l.localData = localdata.NewServiceWithCache(localProvider,
		cache.New[*localdata.Card](l.cfg.Blocks.LocalDataCard.Cache(), cacheOpts...), blockOpts...)

	kpiProvider, err := resolveBlock(ctx, l, industrykpi.KeyPrefix, source[industrykpi.Input, *industrykpi.Map]{
		provider: b.IndustryKPI,
		adapter:  b.IndustryKPIAdapter,
		seedPath: l.cfg.Seeds.IndustryKpiMap,
		loadSeed: func(path string) (industrykpi.Provider, error) {
			maps, err := seedfile.IndustryKPIMaps(path)
			if err != nil {
				return nil, err
			}
			return industrykpi.NewSeedProvider(maps), nil
		},
		newAdapter: func(fn block.AdapterFunc[industrykpi.Input]) industrykpi.Provider {
			return industrykpi.NewAdapterProvider(fn)
		},
		stub: func() industrykpi.Provider { return industrykpi.NewStubProvider() },
	})
	if err != nil {
		return err
	}
	l.industryKPI = industrykpi.NewServiceWithCache(kpiProvider,
		cache.New[*industrykpi.Map](l.cfg.Blocks.IndustryKpiMap.Cache(), cacheOpts...), blockOpts...)

	proofProvider, err := resolveBlock(ctx, l, proof.KeyPrefix, source[proof.Input, *proof.Slot]{
		provider: b.Proof,
		adapter:  b.ProofAdapter,
		seedPath: l.cfg.Seeds.ProofSlot,
		loadSeed: func(path string) (proof.Provider, error) {
			seeds, err := seedfile.ProofSeeds(path)
			if err != nil {
				return nil, err
			}
			return proof.NewSeedProvider(seeds), nil
		},
		newAdapter: func(fn block.AdapterFunc[proof.Input]) proof.Provider {
			return proof.NewAdapterProvider(fn)
		},
		stub: func() proof.Provider { return proof.NewStubProvider() },
	})
	if err != nil {
		return err
	}
	l.proof = proof.NewServiceWithCache(proofProvider,
		cache.New[*proof.Slot](l.cfg.Blocks.ProofSlot.Cache(), cacheOpts...), blockOpts...)

	l.health.Register(health.NewFreshnessChecker(localdata.KeyPrefix+".freshness", l.localData.Cache()))
	l.health.Register(health.NewFreshnessChecker(industrykpi.KeyPrefix+".freshness", l.industryKPI.Cache()))
	l.health.Register(health.NewFreshnessChecker(proof.KeyPrefix+".freshness", l.proof.Cache()))
	return nil
}

// resolveBlock picks name's provider, giving adapters their own policy so
// one failing backend cannot open another's breaker.
func resolveBlock[I, T any](ctx context.Context, l *Layer, name string, src source[I, T]) (block.Provider[I, T], error) {
	policy := resilience.NewPolicyFromConfig(l.cfg.Resilience)

	p, kind, err := src.resolve(policy)
	if err != nil {
		return nil, fmt.Errorf("pageblocks: %s seed %s: %w", name, src.seedPath, err)
	}
	l.backends[name] = kind

	if kind == KindAdapter && policy.Breaker() != nil {
		l.health.Register(health.NewBreakerChecker(name+".breaker", policy.Breaker()))
	}
	if kind == KindStub {
		l.logger.Warn(ctx, "block has no backend; every fetch will fail", observe.Field{Key: "block.type", Value: name})
	} else {
		l.logger.Info(ctx, "block backend ready",
			observe.Field{Key: "block.type", Value: name},
			observe.Field{Key: "backend", Value: kind},
		)
	}
	return p, nil
}

// LocalData returns the LocalDataCard service.
func (l *Layer) LocalData() *localdata.Service { return l.localData }

// IndustryKPI returns the IndustryKpiMap service.
func (l *Layer) IndustryKPI() *industrykpi.Service { return l.industryKPI }

// Proof returns the ProofSlot service.
func (l *Layer) Proof() *proof.Service { return l.proof }

// Health returns the aggregator holding every freshness and breaker check.
func (l *Layer) Health() *health.Aggregator { return l.health }

// Config returns the configuration the Layer was built from.
func (l *Layer) Config() *config.Config { return l.cfg }

// Backend reports which kind of backend serves the named block type, or
// "" for an unknown name.
func (l *Layer) Backend(name string) string { return l.backends[name] }

// AuditInputs lists the inputs to fetch per block type.
type AuditInputs struct {
	LocalData   []localdata.Input
	IndustryKPI []industrykpi.Input
	Proof       []proof.Input
}

// AuditReport summarizes an Audit per block type.
type AuditReport struct {
	LocalData   block.AuditSummary
	IndustryKPI block.AuditSummary
	Proof       block.AuditSummary
}

// Audit fetches every input, warming the caches, and summarizes the
// validation outcomes. Each block is bounded by blocks.warm_concurrency.
func (l *Layer) Audit(ctx context.Context, in AuditInputs) AuditReport {
	limit := l.cfg.Blocks.WarmConcurrency

	var report AuditReport
	var g errgroup.Group
	g.Go(func() error {
		report.LocalData = block.Summarize(l.localData.Warm(ctx, in.LocalData, limit))
		return nil
	})
	g.Go(func() error {
		report.IndustryKPI = block.Summarize(l.industryKPI.Warm(ctx, in.IndustryKPI, limit))
		return nil
	})
	g.Go(func() error {
		report.Proof = block.Summarize(l.proof.Warm(ctx, in.Proof, limit))
		return nil
	})
	_ = g.Wait()

	return report
}

// Shutdown flushes telemetry. It is idempotent.
func (l *Layer) Shutdown(ctx context.Context) error {
	l.shutdownOnce.Do(func() {
		if l.ownObs && l.obs != nil {
			l.shutdownErr = l.obs.Shutdown(ctx)
		}
	})
	return l.shutdownErr
}
