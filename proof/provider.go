package proof

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/pageblocks/block"
)

// Provider is the backend contract for ProofSlot blocks.
type Provider = block.Provider[Input, *Slot]

// ErrNilSlot is returned by LastUpdated for a nil slot.
var ErrNilSlot = errors.New("proof: slot is nil")

// SourcesFor returns the data source that backs slots of type t.
func SourcesFor(t Type) []string {
	switch t {
	case TypeCaseStudy:
		return []string{"Case Studies Database"}
	case TypeAggregate:
		return []string{"Analytics Database"}
	case TypeTeam:
		return []string{"Team Database"}
	}
	return []string{}
}

type contract struct{}

func (contract) Validate(s *Slot) block.ValidationResult {
	return Validate(s)
}

func (contract) LastUpdated(s *Slot) (time.Time, error) {
	if s == nil {
		return time.Time{}, ErrNilSlot
	}
	return block.LastUpdated(s.LastUpdated)
}

type typedSources struct {
	contract
}

func (typedSources) Sources(s *Slot) []string {
	return SourcesFor(s.Type())
}

// Seed is one seeded slot with an optional scope. Unscoped seeds serve
// every input of their type.
type Seed struct {
	City     string `json:"city,omitempty"`
	Service  string `json:"service,omitempty"`
	Industry string `json:"industry,omitempty"`
	Slot     *Slot  `json:"-"`
}

// UnmarshalJSON reads the scope fields and the slot from one flat object.
func (s *Seed) UnmarshalJSON(data []byte) error {
	var scope struct {
		City     string `json:"city"`
		Service  string `json:"service"`
		Industry string `json:"industry"`
	}
	if err := json.Unmarshal(data, &scope); err != nil {
		return err
	}
	var slot Slot
	if err := json.Unmarshal(data, &slot); err != nil {
		return err
	}
	*s = Seed{City: scope.City, Service: scope.Service, Industry: scope.Industry, Slot: &slot}
	return nil
}

// Unscoped wraps slots as seeds that match any input of their type.
func Unscoped(slots ...*Slot) []Seed {
	seeds := make([]Seed, 0, len(slots))
	for _, s := range slots {
		seeds = append(seeds, Seed{Slot: s})
	}
	return seeds
}

// SeedKey is the composite lookup key used by SeedProvider.
func SeedKey(t Type, city, service, industry string) string {
	return string(t) + "|" + city + "|" + service + "|" + industry
}

// SeedProvider serves slots from a static table. A lookup tries the exact
// type and scope first, then the unscoped seed for the type.
type SeedProvider struct {
	typedSources
	slots map[string]*Slot
}

// NewSeedProvider indexes seeds by type and scope. Seeds without a slot
// are skipped.
func NewSeedProvider(seeds []Seed) *SeedProvider {
	p := &SeedProvider{slots: make(map[string]*Slot, len(seeds))}
	for _, seed := range seeds {
		if seed.Slot == nil {
			continue
		}
		p.slots[SeedKey(seed.Slot.Type(), seed.City, seed.Service, seed.Industry)] = seed.Slot
	}
	return p
}

// Len returns the number of seeded slots.
func (p *SeedProvider) Len() int {
	return len(p.slots)
}

// Fetch implements Provider. It returns the seeded slot itself, not a copy.
func (p *SeedProvider) Fetch(_ context.Context, in Input) (*Slot, error) {
	t := in.SlotType()
	key := SeedKey(t, in.City, in.Service, in.Industry)
	if s, ok := p.slots[key]; ok {
		return s, nil
	}
	if s, ok := p.slots[SeedKey(t, "", "", "")]; ok {
		return s, nil
	}
	return nil, block.NotFound(BlockName, key)
}

// AdapterProvider remaps a backend payload into a Slot. The type comes
// from the payload, then the input, then DefaultType.
type AdapterProvider struct {
	typedSources
	adapter block.AdapterFunc[Input]
	now     func() time.Time
}

// NewAdapterProvider creates an AdapterProvider around adapter.
func NewAdapterProvider(adapter block.AdapterFunc[Input]) *AdapterProvider {
	return &AdapterProvider{adapter: adapter, now: time.Now}
}

// Fetch implements Provider.
func (p *AdapterProvider) Fetch(ctx context.Context, in Input) (*Slot, error) {
	if p.adapter == nil {
		return nil, block.AdapterNotConfigured(BlockName)
	}

	raw, err := p.adapter(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("proof: adapter: %w", err)
	}

	var w wireSlot
	if err := block.Decode(raw, &w); err != nil {
		return nil, err
	}
	if w.Type == "" {
		w.Type = in.SlotType()
	}
	if w.LastUpdated == "" {
		w.LastUpdated = block.FormatTimestamp(p.now())
	}
	return w.slot(), nil
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
func (*StubProvider) Fetch(context.Context, Input) (*Slot, error) {
	return nil, block.NotImplemented(BlockName, "ProofProvider")
}

// Sources implements Provider.
func (*StubProvider) Sources(*Slot) []string {
	return []string{}
}

var (
	_ Provider = (*SeedProvider)(nil)
	_ Provider = (*AdapterProvider)(nil)
	_ Provider = (*StubProvider)(nil)
)
