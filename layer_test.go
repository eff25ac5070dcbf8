package pageblocks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/pageblocks/block"
	"github.com/jonwraymond/pageblocks/config"
	"github.com/jonwraymond/pageblocks/health"
	"github.com/jonwraymond/pageblocks/industrykpi"
	"github.com/jonwraymond/pageblocks/localdata"
	"github.com/jonwraymond/pageblocks/observe"
	"github.com/jonwraymond/pageblocks/proof"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testOptions() []Option {
	return []Option{
		WithObserver(observe.NopObserver()),
		WithClock(func() time.Time { return testNow }),
	}
}

func austinCard() *localdata.Card {
	return &localdata.Card{
		City:               "Austin",
		State:              "TX",
		Service:            "seo",
		SERP:               &localdata.SERPData{AvgCompetitorCount: localdata.Int(12)},
		Market:             &localdata.MarketData{MarketSize: localdata.Float(2500000)},
		Reviews:            &localdata.ReviewData{AvgRatingRange: "4.2-4.8"},
		Competitors:        &localdata.CompetitorData{CompetitorCategories: []string{"agency"}},
		RankingEnvironment: &localdata.RankingEnvironment{LocalSEOImportance: localdata.LevelHigh},
		DataSources:        []localdata.DataSource{{Name: "Census Bureau", Type: localdata.SourceExternal}},
		LastUpdated:        block.FormatTimestamp(testNow.Add(-24 * time.Hour)),
	}
}

func writeSeeds(t *testing.T, name string, records any) string {
	t.Helper()
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newLayer(t *testing.T, cfg *config.Config, b Backends) *Layer {
	t.Helper()
	l, err := New(context.Background(), cfg, b, testOptions()...)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	t.Cleanup(func() { _ = l.Shutdown(context.Background()) })
	return l
}

func TestNew_StubsByDefault(t *testing.T) {
	l := newLayer(t, nil, Backends{})

	for _, name := range []string{localdata.KeyPrefix, industrykpi.KeyPrefix, proof.KeyPrefix} {
		if got := l.Backend(name); got != KindStub {
			t.Errorf("Backend(%s) = %q, want %q", name, got, KindStub)
		}
	}
	if got := l.Backend("nope"); got != "" {
		t.Errorf("Backend(nope) = %q", got)
	}

	res := l.Proof().Get(context.Background(), proof.Input{Type: proof.TypeTeam})
	if !res.Validation.Has(block.CodeProviderError) {
		t.Fatalf("codes = %v, want PROVIDER_ERROR", res.Validation.Codes())
	}
	if msg := res.Validation.Errors[0].Message; !strings.Contains(msg, "not implemented") {
		t.Errorf("message = %q, want remediation text", msg)
	}

	report := l.Health().Run(context.Background())
	if report.Status != health.StatusHealthy {
		t.Errorf("health = %v, want healthy", report.Status)
	}
	if len(report.Results) != 3 {
		t.Errorf("checks = %v, want three freshness checks", l.Health().Names())
	}
}

func TestNew_SeedFiles(t *testing.T) {
	cfg := config.Default()
	cfg.Seeds.LocalDataCard = writeSeeds(t, "cards.json", []*localdata.Card{austinCard()})
	cfg.Seeds.ProofSlot = writeSeeds(t, "proof.json", []map[string]any{{
		"type":         "team",
		"team_proof":   []map[string]string{{"member": "Dana", "credential": "CPA", "attribution": "LinkedIn"}},
		"last_updated": "2026-05-01",
	}})
	l := newLayer(t, cfg, Backends{})

	if got := l.Backend(localdata.KeyPrefix); got != KindSeed {
		t.Errorf("local backend = %q, want seed", got)
	}
	if got := l.Backend(industrykpi.KeyPrefix); got != KindStub {
		t.Errorf("kpi backend = %q, want stub", got)
	}

	ctx := context.Background()
	card := l.LocalData().Get(ctx, localdata.Input{City: "Austin", State: "TX", Service: "seo"})
	if !card.Validation.Valid || card.Data == nil || card.Data.City != "Austin" {
		t.Fatalf("card = %+v", card)
	}

	slot := l.Proof().Get(ctx, proof.Input{City: "Denver", Type: proof.TypeTeam})
	if !slot.Validation.Valid {
		t.Fatalf("slot validation = %v", slot.Validation)
	}
	if _, ok := slot.Data.Payload.(proof.Team); !ok {
		t.Errorf("payload = %T, want proof.Team", slot.Data.Payload)
	}
}

func TestNew_SeedFileError(t *testing.T) {
	cfg := config.Default()
	cfg.Seeds.IndustryKpiMap = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg, Backends{}, testOptions()...)
	if err == nil || !strings.Contains(err.Error(), industrykpi.KeyPrefix) {
		t.Fatalf("error = %v, want seed error naming the block", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Blocks.ProofSlot.TTL = 0

	var fe config.FieldError
	if _, err := New(context.Background(), cfg, Backends{}, testOptions()...); !errors.As(err, &fe) {
		t.Fatalf("error = %v, want config.FieldError", err)
	}
}

func TestNew_AdapterBreakerHealth(t *testing.T) {
	cfg := config.Default()
	cfg.Resilience.Enabled = true
	cfg.Resilience.MaxAttempts = 1
	cfg.Resilience.Timeout = time.Second
	cfg.Resilience.Breaker.MaxFailures = 1
	cfg.Resilience.Breaker.ResetTimeout = time.Hour

	calls := 0
	l := newLayer(t, cfg, Backends{
		ProofAdapter: func(context.Context, proof.Input) (map[string]any, error) {
			calls++
			return nil, errors.New("case study db down")
		},
	})
	if got := l.Backend(proof.KeyPrefix); got != KindAdapter {
		t.Fatalf("backend = %q, want adapter", got)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		res := l.Proof().Get(ctx, proof.Input{})
		if !res.Validation.Has(block.CodeProviderError) {
			t.Fatalf("call %d codes = %v", i, res.Validation.Codes())
		}
	}
	if calls != 1 {
		t.Errorf("adapter calls = %d, want 1 (second rejected by open circuit)", calls)
	}

	res, err := l.Health().Check(ctx, proof.KeyPrefix+".breaker")
	if err != nil {
		t.Fatalf("Check error = %v", err)
	}
	if res.Status != health.StatusUnhealthy {
		t.Errorf("breaker status = %v, want unhealthy", res.Status)
	}
	if got := l.Health().Run(ctx).Status; got != health.StatusUnhealthy {
		t.Errorf("overall status = %v, want unhealthy", got)
	}
}

func TestNew_AdapterWithoutResilience(t *testing.T) {
	l := newLayer(t, nil, Backends{
		LocalDataAdapter: func(_ context.Context, in localdata.Input) (map[string]any, error) {
			return map[string]any{
				"city":    in.City,
				"state":   in.State,
				"service": in.Service,
			}, nil
		},
	})

	if _, err := l.Health().Check(context.Background(), localdata.KeyPrefix+".breaker"); !errors.Is(err, health.ErrCheckerNotFound) {
		t.Errorf("breaker check error = %v, want ErrCheckerNotFound with resilience disabled", err)
	}

	res := l.LocalData().Get(context.Background(), localdata.Input{City: "Austin", State: "TX", Service: "seo"})
	if res.Validation.Valid {
		t.Fatal("sparse adapter payload validated")
	}
	if !res.Validation.Has(localdata.CodeMissingDataSources) {
		t.Errorf("codes = %v, want %s", res.Validation.Codes(), localdata.CodeMissingDataSources)
	}
}

func TestNew_ProviderBeatsAdapter(t *testing.T) {
	l := newLayer(t, nil, Backends{
		LocalData: localdata.NewSeedProvider([]*localdata.Card{austinCard()}),
		LocalDataAdapter: func(context.Context, localdata.Input) (map[string]any, error) {
			t.Error("adapter called")
			return nil, nil
		},
	})
	if got := l.Backend(localdata.KeyPrefix); got != KindCustom {
		t.Fatalf("backend = %q, want custom", got)
	}
	res := l.LocalData().Get(context.Background(), localdata.Input{City: "Austin", State: "TX", Service: "seo"})
	if !res.Validation.Valid {
		t.Errorf("validation = %v", res.Validation)
	}
}

func TestLayer_Audit(t *testing.T) {
	cfg := config.Default()
	cfg.Blocks.WarmConcurrency = 2
	l := newLayer(t, cfg, Backends{
		LocalData: localdata.NewSeedProvider([]*localdata.Card{austinCard()}),
	})

	report := l.Audit(context.Background(), AuditInputs{
		LocalData: []localdata.Input{
			{City: "Austin", State: "TX", Service: "seo"},
			{City: "Boise", State: "ID", Service: "seo"},
		},
		Proof: []proof.Input{{}},
	})

	if report.LocalData.Total != 2 || report.LocalData.Valid != 1 || report.LocalData.ByCode[block.CodeProviderError] != 1 {
		t.Errorf("local data = %+v", report.LocalData)
	}
	if report.IndustryKPI.Total != 0 {
		t.Errorf("industry kpi = %+v", report.IndustryKPI)
	}
	if report.Proof.Invalid != 1 {
		t.Errorf("proof = %+v", report.Proof)
	}
	if got := l.LocalData().Cache().Len(); got != 1 {
		t.Errorf("cache size = %d, want 1 warmed card", got)
	}
}

func TestLayer_HashKeysAndStaleness(t *testing.T) {
	cfg := config.Default()
	cfg.Blocks.HashKeys = true
	l := newLayer(t, cfg, Backends{
		LocalData: localdata.NewSeedProvider([]*localdata.Card{austinCard()}),
	})

	l.LocalData().Get(context.Background(), localdata.Input{City: "Austin", State: "TX", Service: "seo"})
	keys := l.LocalData().Cache().Keys()
	if len(keys) != 1 {
		t.Fatalf("keys = %v", keys)
	}
	if strings.Contains(keys[0], "Austin") {
		t.Errorf("key %q not hashed", keys[0])
	}
}

func TestLayer_ShutdownIdempotent(t *testing.T) {
	l, err := New(context.Background(), nil, Backends{}, WithObserver(observe.NopObserver()))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := l.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown #%d = %v", i+1, err)
		}
	}
}

func TestLayer_OwnsObserver(t *testing.T) {
	cfg := config.Default()
	cfg.Observe.Logging.Enabled = false

	l, err := New(context.Background(), cfg, Backends{})
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	if !l.ownObs {
		t.Error("layer did not build its own observer")
	}
	if err := l.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown = %v", err)
	}
}
