package localdata

// BlockName names the block in messages.
const BlockName = "LocalDataCard"

// KeyPrefix prefixes every LocalDataCard cache key.
const KeyPrefix = "local-data-card"

// Level grades an aspect of the ranking environment.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// SourceType classifies a data source.
type SourceType string

const (
	SourceInternal    SourceType = "internal"
	SourceExternal    SourceType = "external"
	SourceThirdParty  SourceType = "third_party"
	SourceProprietary SourceType = "proprietary"
)

// Input selects one card.
type Input struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Service string `json:"service"`
}

// Card is a LocalDataCard. Nested sections are pointers so that an absent
// section can be told apart from an empty one.
type Card struct {
	City               string              `json:"city" mapstructure:"city"`
	State              string              `json:"state" mapstructure:"state"`
	Service            string              `json:"service" mapstructure:"service"`
	SERP               *SERPData           `json:"serp_data,omitempty" mapstructure:"serp_data"`
	Market             *MarketData         `json:"market_data,omitempty" mapstructure:"market_data"`
	Reviews            *ReviewData         `json:"review_data,omitempty" mapstructure:"review_data"`
	Competitors        *CompetitorData     `json:"competitor_data,omitempty" mapstructure:"competitor_data"`
	RankingEnvironment *RankingEnvironment `json:"ranking_environment,omitempty" mapstructure:"ranking_environment"`
	DataSources        []DataSource        `json:"data_sources" mapstructure:"data_sources"`
	LastUpdated        string              `json:"last_updated" mapstructure:"last_updated"` // ISO 8601
}

// SERPData describes the search results page for the service in the city.
type SERPData struct {
	AvgCompetitorCount     *int `json:"avg_competitor_count,omitempty" mapstructure:"avg_competitor_count"`
	LocalPackPresent       bool `json:"local_pack_present" mapstructure:"local_pack_present"`
	FeaturedSnippetPresent bool `json:"featured_snippet_present" mapstructure:"featured_snippet_present"`
}

// MarketData sizes the local market.
type MarketData struct {
	MarketSize *float64 `json:"market_size,omitempty" mapstructure:"market_size"`
	GrowthRate *float64 `json:"growth_rate,omitempty" mapstructure:"growth_rate"`
}

// ReviewData holds review ranges such as "4.2-4.8".
type ReviewData struct {
	AvgRatingRange      string `json:"avg_rating_range" mapstructure:"avg_rating_range"`
	AvgReviewCountRange string `json:"avg_review_count_range" mapstructure:"avg_review_count_range"`
}

// CompetitorData lists the competitive landscape.
type CompetitorData struct {
	CompetitorCategories []string `json:"competitor_categories" mapstructure:"competitor_categories"`
	TopCompetitors       []string `json:"top_competitors,omitempty" mapstructure:"top_competitors"`
}

// RankingEnvironment grades how hard the local market is to rank in.
type RankingEnvironment struct {
	LocalSEOImportance Level `json:"local_seo_importance" mapstructure:"local_seo_importance"`
	CompetitionLevel   Level `json:"competition_level" mapstructure:"competition_level"`
}

// DataSource attributes part of a card.
type DataSource struct {
	Name       string     `json:"name" mapstructure:"name"`
	URL        string     `json:"url,omitempty" mapstructure:"url"`
	Type       SourceType `json:"type" mapstructure:"type"`
	AccessDate string     `json:"access_date" mapstructure:"access_date"`
}

// Int returns a pointer to v, for building cards in code.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for building cards in code.
func Float(v float64) *float64 { return &v }
