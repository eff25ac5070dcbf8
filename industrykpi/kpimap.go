package industrykpi

// BlockName names the block in messages.
const BlockName = "IndustryKpiMap"

// KeyPrefix prefixes every IndustryKpiMap cache key.
const KeyPrefix = "industry-kpi-map"

// KPI count bounds, inclusive.
const (
	MinKPIs = 5
	MaxKPIs = 10
)

// Input selects one map.
type Input struct {
	Industry string `json:"industry"`
	Service  string `json:"service"`
}

// Map is an IndustryKpiMap. A nil KPIs slice means the list is absent,
// which is reported differently from an empty one.
type Map struct {
	Industry     string        `json:"industry" mapstructure:"industry"`
	Service      string        `json:"service" mapstructure:"service"`
	KPIs         []KPI         `json:"kpis" mapstructure:"kpis"`
	Constraints  []Constraint  `json:"constraints" mapstructure:"constraints"`
	Compliance   []Compliance  `json:"compliance,omitempty" mapstructure:"compliance"`
	BuyerJourney *BuyerJourney `json:"buyer_journey,omitempty" mapstructure:"buyer_journey"`
	LastUpdated  string        `json:"last_updated" mapstructure:"last_updated"`
}

type KPI struct {
	Metric    string   `json:"metric" mapstructure:"metric"`
	Benchmark *float64 `json:"benchmark,omitempty" mapstructure:"benchmark"`
	Context   string   `json:"context,omitempty" mapstructure:"context"`
}

type Constraint struct {
	Type        string `json:"type" mapstructure:"type"`
	Description string `json:"description" mapstructure:"description"`
	Impact      string `json:"impact,omitempty" mapstructure:"impact"`
}

type Compliance struct {
	Regulation  string `json:"regulation" mapstructure:"regulation"`
	Requirement string `json:"requirement" mapstructure:"requirement"`
	Link        string `json:"link,omitempty" mapstructure:"link"`
}

// BuyerJourney lists the questions or touchpoints per funnel stage.
type BuyerJourney struct {
	Awareness     []string `json:"awareness,omitempty" mapstructure:"awareness"`
	Consideration []string `json:"consideration,omitempty" mapstructure:"consideration"`
	Decision      []string `json:"decision,omitempty" mapstructure:"decision"`
}
