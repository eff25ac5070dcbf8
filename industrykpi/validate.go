package industrykpi

import (
	"time"

	"github.com/jonwraymond/pageblocks/block"
)

const (
	CodeMissingIndustry       = "MISSING_INDUSTRY"
	CodeMissingService        = "MISSING_SERVICE"
	CodeMissingKPIs           = "MISSING_KPIS"
	CodeInsufficientKPIs      = "INSUFFICIENT_KPIS"
	CodeTooManyKPIs           = "TOO_MANY_KPIS"
	CodeMissingKPIMetric      = "MISSING_KPI_METRIC"
	CodeMissingConstraints    = "MISSING_CONSTRAINTS"
	CodeMissingConstraintType = "MISSING_CONSTRAINT_TYPE"
	CodeMissingConstraintDesc = "MISSING_CONSTRAINT_DESC"
	CodeMissingBuyerJourney   = "MISSING_BUYER_JOURNEY"
)

// Validate checks m against the current time.
func Validate(m *Map) block.ValidationResult {
	return ValidateAt(m, time.Now())
}

// ValidateAt checks m as of now. Every violated rule is reported.
func ValidateAt(m *Map, now time.Time) block.ValidationResult {
	if m == nil {
		return block.Missing(BlockName)
	}

	var c block.Collector
	c.Require(m.Industry, CodeMissingIndustry, "industry", "Industry is required")
	c.Require(m.Service, CodeMissingService, "service", "Service is required")

	if m.KPIs == nil {
		c.Add(CodeMissingKPIs, "kpis", "KPIs array is required")
	} else {
		if len(m.KPIs) < MinKPIs {
			c.Addf(CodeInsufficientKPIs, "kpis", "Must have at least %d KPIs", MinKPIs)
		}
		if len(m.KPIs) > MaxKPIs {
			c.Addf(CodeTooManyKPIs, "kpis", "Must have at most %d KPIs", MaxKPIs)
		}
		for i, kpi := range m.KPIs {
			if kpi.Metric == "" {
				c.Addf(CodeMissingKPIMetric, block.IndexedField("kpis", i, "metric"), "KPI %d missing metric", i)
			}
		}
	}

	if len(m.Constraints) == 0 {
		c.Add(CodeMissingConstraints, "constraints", "At least one constraint is required")
	}
	for i, con := range m.Constraints {
		if con.Type == "" {
			c.Addf(CodeMissingConstraintType, block.IndexedField("constraints", i, "type"), "Constraint %d missing type", i)
		}
		if con.Description == "" {
			c.Addf(CodeMissingConstraintDesc, block.IndexedField("constraints", i, "description"), "Constraint %d missing description", i)
		}
	}

	if m.BuyerJourney == nil {
		c.Add(CodeMissingBuyerJourney, "buyer_journey", "Buyer journey is required")
	}

	c.CheckLastUpdated(m.LastUpdated, now)
	return c.Result()
}
