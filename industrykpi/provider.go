package industrykpi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/pageblocks/block"
)

// Provider is the backend contract for IndustryKpiMap blocks.
type Provider = block.Provider[Input, *Map]

// ErrNilMap is returned by LastUpdated for a nil map.
var ErrNilMap = errors.New("industrykpi: map is nil")

// DefaultSources are reported for maps served by seed and adapter
// providers.
var DefaultSources = []string{"Industry Research Database", "Compliance Database"}

// SeedKey is the composite lookup key used by SeedProvider.
func SeedKey(industry, service string) string {
	return industry + "|" + service
}

type contract struct{}

func (contract) Validate(m *Map) block.ValidationResult {
	return Validate(m)
}

func (contract) LastUpdated(m *Map) (time.Time, error) {
	if m == nil {
		return time.Time{}, ErrNilMap
	}
	return block.LastUpdated(m.LastUpdated)
}

// withSources reports DefaultSources for any map.
type withSources struct {
	contract
}

func (withSources) Sources(*Map) []string {
	return append([]string(nil), DefaultSources...)
}

// SeedProvider serves maps from a static in-memory table.
type SeedProvider struct {
	withSources
	maps map[string]*Map
}

// NewSeedProvider indexes maps by industry and service.
func NewSeedProvider(maps []*Map) *SeedProvider {
	p := &SeedProvider{maps: make(map[string]*Map, len(maps))}
	for _, m := range maps {
		if m != nil {
			p.maps[SeedKey(m.Industry, m.Service)] = m
		}
	}
	return p
}

// Len returns the number of seeded maps.
func (p *SeedProvider) Len() int {
	return len(p.maps)
}

// Fetch implements Provider. It returns the seeded map itself, not a copy.
func (p *SeedProvider) Fetch(_ context.Context, in Input) (*Map, error) {
	key := SeedKey(in.Industry, in.Service)
	m, ok := p.maps[key]
	if !ok {
		return nil, block.NotFound(BlockName, key)
	}
	return m, nil
}

// AdapterProvider remaps a backend payload into a Map.
type AdapterProvider struct {
	withSources
	adapter block.AdapterFunc[Input]
	now     func() time.Time
}

// NewAdapterProvider creates an AdapterProvider around adapter.
func NewAdapterProvider(adapter block.AdapterFunc[Input]) *AdapterProvider {
	return &AdapterProvider{adapter: adapter, now: time.Now}
}

// Fetch implements Provider.
func (p *AdapterProvider) Fetch(ctx context.Context, in Input) (*Map, error) {
	if p.adapter == nil {
		return nil, block.AdapterNotConfigured(BlockName)
	}

	raw, err := p.adapter(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("industrykpi: adapter: %w", err)
	}

	var m Map
	if err := block.Decode(raw, &m); err != nil {
		return nil, err
	}

	if m.Industry == "" {
		m.Industry = in.Industry
	}
	if m.Service == "" {
		m.Service = in.Service
	}
	if m.KPIs == nil {
		m.KPIs = []KPI{}
	}
	if m.Constraints == nil {
		m.Constraints = []Constraint{}
	}
	if m.BuyerJourney == nil {
		m.BuyerJourney = &BuyerJourney{Awareness: []string{}, Consideration: []string{}, Decision: []string{}}
	}
	if m.LastUpdated == "" {
		m.LastUpdated = block.FormatTimestamp(p.now())
	}
	return &m, nil
}

// StubProvider fails every Fetch with instructions for wiring a real
// provider. It reports no sources.
type StubProvider struct {
	contract
}

// NewStubProvider creates a StubProvider.
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

// Fetch implements Provider.
func (*StubProvider) Fetch(context.Context, Input) (*Map, error) {
	return nil, block.NotImplemented(BlockName, "IndustryKpiProvider")
}

// Sources implements Provider.
func (*StubProvider) Sources(*Map) []string {
	return []string{}
}

var (
	_ Provider = (*SeedProvider)(nil)
	_ Provider = (*AdapterProvider)(nil)
	_ Provider = (*StubProvider)(nil)
)
