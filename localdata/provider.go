package localdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/pageblocks/block"
)

// Provider is the backend contract for LocalDataCard blocks.
type Provider = block.Provider[Input, *Card]

// ErrNilCard is returned by LastUpdated for a nil card.
var ErrNilCard = errors.New("localdata: card is nil")

// SeedKey is the composite lookup key used by SeedProvider.
func SeedKey(city, state, service string) string {
	return city + "|" + state + "|" + service
}

// contract holds the operations every provider shares.
type contract struct{}

func (contract) Validate(card *Card) block.ValidationResult {
	return Validate(card)
}

func (contract) LastUpdated(card *Card) (time.Time, error) {
	if card == nil {
		return time.Time{}, ErrNilCard
	}
	return block.LastUpdated(card.LastUpdated)
}

func (contract) Sources(card *Card) []string {
	if card == nil {
		return nil
	}
	names := make([]string, 0, len(card.DataSources))
	for _, s := range card.DataSources {
		names = append(names, s.Name)
	}
	return names
}

// SeedProvider serves cards from a static in-memory table.
//
// Contract:
// - Concurrency: safe for concurrent use; the table is fixed at construction.
// - Errors: a lookup miss returns an error wrapping block.ErrNotFound.
type SeedProvider struct {
	contract
	cards map[string]*Card
}

// NewSeedProvider indexes cards by city, state and service. A later card
// replaces an earlier one with the same key.
func NewSeedProvider(cards []*Card) *SeedProvider {
	p := &SeedProvider{cards: make(map[string]*Card, len(cards))}
	for _, card := range cards {
		if card == nil {
			continue
		}
		p.cards[SeedKey(card.City, card.State, card.Service)] = card
	}
	return p
}

// Len returns the number of seeded cards.
func (p *SeedProvider) Len() int {
	return len(p.cards)
}

// Fetch implements Provider. It returns the seeded card itself, not a copy.
func (p *SeedProvider) Fetch(_ context.Context, in Input) (*Card, error) {
	key := SeedKey(in.City, in.State, in.Service)
	card, ok := p.cards[key]
	if !ok {
		return nil, block.NotFound(BlockName, key)
	}
	return card, nil
}

// AdapterProvider remaps whatever a backend returns into a Card. Missing
// sections are replaced with safe empty defaults; the validator decides
// whether the result is usable.
type AdapterProvider struct {
	contract
	adapter block.AdapterFunc[Input]
	now     func() time.Time
}

// NewAdapterProvider creates an AdapterProvider around adapter.
func NewAdapterProvider(adapter block.AdapterFunc[Input]) *AdapterProvider {
	return &AdapterProvider{adapter: adapter, now: time.Now}
}

// Fetch implements Provider.
func (p *AdapterProvider) Fetch(ctx context.Context, in Input) (*Card, error) {
	if p.adapter == nil {
		return nil, block.AdapterNotConfigured(BlockName)
	}

	raw, err := p.adapter(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("localdata: adapter: %w", err)
	}

	var card Card
	if err := block.Decode(raw, &card); err != nil {
		return nil, err
	}
	return p.withDefaults(&card, in), nil
}

func (p *AdapterProvider) withDefaults(card *Card, in Input) *Card {
	if card.City == "" {
		card.City = in.City
	}
	if card.State == "" {
		card.State = in.State
	}
	if card.Service == "" {
		card.Service = in.Service
	}
	if card.SERP == nil {
		card.SERP = &SERPData{AvgCompetitorCount: Int(0)}
	}
	if card.Market == nil {
		card.Market = &MarketData{MarketSize: Float(0)}
	}
	if card.Reviews == nil {
		card.Reviews = &ReviewData{AvgRatingRange: "0-0", AvgReviewCountRange: "0-0"}
	}
	if card.Competitors == nil {
		card.Competitors = &CompetitorData{CompetitorCategories: []string{}}
	}
	if card.RankingEnvironment == nil {
		card.RankingEnvironment = &RankingEnvironment{LocalSEOImportance: LevelMedium, CompetitionLevel: LevelMedium}
	}
	if card.DataSources == nil {
		card.DataSources = []DataSource{}
	}
	if card.LastUpdated == "" {
		card.LastUpdated = block.FormatTimestamp(p.now())
	}
	return card
}

// StubProvider fails every Fetch with instructions for wiring a real
// provider.
type StubProvider struct {
	contract
}

// NewStubProvider creates a StubProvider.
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

// Fetch implements Provider.
func (*StubProvider) Fetch(context.Context, Input) (*Card, error) {
	return nil, block.NotImplemented(BlockName, "LocalDataProvider")
}

var (
	_ Provider = (*SeedProvider)(nil)
	_ Provider = (*AdapterProvider)(nil)
	_ Provider = (*StubProvider)(nil)
)
