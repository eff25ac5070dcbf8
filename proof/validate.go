package proof

import (
	"time"

	"github.com/jonwraymond/pageblocks/block"
)

const (
	CodeInvalidType             = "INVALID_TYPE"
	CodeMissingCaseStudyRef     = "MISSING_CASE_STUDY_REF"
	CodeMissingCaseStudyID      = "MISSING_CASE_STUDY_ID"
	CodeMissingAggregateMetrics = "MISSING_AGGREGATE_METRICS"
	CodeMissingMetricName       = "MISSING_METRIC_NAME"
	CodeMissingMetricValue      = "MISSING_METRIC_VALUE"
	CodeMissingTeamProof        = "MISSING_TEAM_PROOF"
	CodeMissingMember           = "MISSING_MEMBER"
	CodeMissingCredential       = "MISSING_CREDENTIAL"
	CodeMissingAttribution      = "MISSING_ATTRIBUTION"
)

// Validate checks s against the current time.
func Validate(s *Slot) block.ValidationResult {
	return ValidateAt(s, time.Now())
}

// ValidateAt checks s as of now. The payload variant selects which
// presence rules apply. Every violated rule is reported.
func ValidateAt(s *Slot, now time.Time) block.ValidationResult {
	if s == nil {
		return block.Missing(BlockName)
	}

	var c block.Collector
	switch p := s.Payload.(type) {
	case CaseStudy:
		validateCaseStudy(&c, p)
	case Aggregate:
		validateAggregate(&c, p)
	case Team:
		validateTeam(&c, p)
	default:
		c.Add(CodeInvalidType, "type", "Type must be case_study, aggregate, or team")
	}

	c.CheckLastUpdated(s.LastUpdated, now)
	return c.Result()
}

func validateCaseStudy(c *block.Collector, p CaseStudy) {
	if p.Ref == nil {
		c.Add(CodeMissingCaseStudyRef, "case_study_ref", "Case study reference is required for case_study type")
		return
	}
	if p.Ref.ID == "" && p.Ref.URL == "" {
		c.Add(CodeMissingCaseStudyID, "case_study_ref.case_study_id", "Case study ID or URL is required")
	}
}

func validateAggregate(c *block.Collector, p Aggregate) {
	if len(p.Metrics) == 0 {
		c.Add(CodeMissingAggregateMetrics, "aggregate_metrics", "Aggregate metrics are required for aggregate type")
		return
	}
	for i, m := range p.Metrics {
		if m.Metric == "" {
			c.Addf(CodeMissingMetricName, block.IndexedField("aggregate_metrics", i, "metric"), "Metric %d missing name", i)
		}
		if m.Value == nil {
			c.Addf(CodeMissingMetricValue, block.IndexedField("aggregate_metrics", i, "value"), "Metric %d missing value", i)
		}
	}
}

func validateTeam(c *block.Collector, p Team) {
	if len(p.Members) == 0 {
		c.Add(CodeMissingTeamProof, "team_proof", "Team proof is required for team type")
		return
	}
	for i, m := range p.Members {
		if m.Member == "" {
			c.Addf(CodeMissingMember, block.IndexedField("team_proof", i, "member"), "Team proof %d missing member", i)
		}
		if m.Credential == "" {
			c.Addf(CodeMissingCredential, block.IndexedField("team_proof", i, "credential"), "Team proof %d missing credential", i)
		}
		if m.Attribution == "" {
			c.Addf(CodeMissingAttribution, block.IndexedField("team_proof", i, "attribution"), "Team proof %d missing attribution", i)
		}
	}
}
