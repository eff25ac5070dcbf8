package localdata

import (
	"time"

	"github.com/jonwraymond/pageblocks/block"
)

// Error codes specific to LocalDataCard.
const (
	CodeMissingCity                 = "MISSING_CITY"
	CodeMissingState                = "MISSING_STATE"
	CodeMissingService              = "MISSING_SERVICE"
	CodeMissingSERPData             = "MISSING_SERP_DATA"
	CodeMissingCompetitorCount      = "MISSING_COMPETITOR_COUNT"
	CodeMissingMarketData           = "MISSING_MARKET_DATA"
	CodeMissingMarketSize           = "MISSING_MARKET_SIZE"
	CodeMissingReviewData           = "MISSING_REVIEW_DATA"
	CodeMissingRatingRange          = "MISSING_RATING_RANGE"
	CodeMissingCompetitorData       = "MISSING_COMPETITOR_DATA"
	CodeMissingCompetitorCategories = "MISSING_COMPETITOR_CATEGORIES"
	CodeMissingRankingEnv           = "MISSING_RANKING_ENV"
	CodeMissingLocalSEOImportance   = "MISSING_LOCAL_SEO_IMPORTANCE"
	CodeMissingDataSources          = "MISSING_DATA_SOURCES"
)

// Validate checks card against the current time.
func Validate(card *Card) block.ValidationResult {
	return ValidateAt(card, time.Now())
}

// ValidateAt checks card as of now. Every violated rule is reported.
func ValidateAt(card *Card, now time.Time) block.ValidationResult {
	if card == nil {
		return block.Missing(BlockName)
	}

	var c block.Collector
	c.Require(card.City, CodeMissingCity, "city", "City is required")
	c.Require(card.State, CodeMissingState, "state", "State is required")
	c.Require(card.Service, CodeMissingService, "service", "Service is required")

	if card.SERP == nil {
		c.Add(CodeMissingSERPData, "serp_data", "SERP data is required")
	} else if card.SERP.AvgCompetitorCount == nil {
		c.Add(CodeMissingCompetitorCount, "serp_data.avg_competitor_count", "Average competitor count is required")
	}

	if card.Market == nil {
		c.Add(CodeMissingMarketData, "market_data", "Market data is required")
	} else if card.Market.MarketSize == nil {
		c.Add(CodeMissingMarketSize, "market_data.market_size", "Market size is required")
	}

	if card.Reviews == nil {
		c.Add(CodeMissingReviewData, "review_data", "Review data is required")
	} else {
		c.Require(card.Reviews.AvgRatingRange, CodeMissingRatingRange, "review_data.avg_rating_range", "Average rating range is required")
	}

	if card.Competitors == nil {
		c.Add(CodeMissingCompetitorData, "competitor_data", "Competitor data is required")
	} else if len(card.Competitors.CompetitorCategories) == 0 {
		c.Add(CodeMissingCompetitorCategories, "competitor_data.competitor_categories", "Competitor categories are required")
	}

	if card.RankingEnvironment == nil {
		c.Add(CodeMissingRankingEnv, "ranking_environment", "Ranking environment is required")
	} else {
		c.Require(string(card.RankingEnvironment.LocalSEOImportance), CodeMissingLocalSEOImportance,
			"ranking_environment.local_seo_importance", "Local SEO importance is required")
	}

	if len(card.DataSources) == 0 {
		c.Add(CodeMissingDataSources, "data_sources", "At least one data source is required")
	}

	c.CheckLastUpdated(card.LastUpdated, now)
	return c.Result()
}
