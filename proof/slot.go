package proof

import (
	"encoding/json"
)

// BlockName names the block in messages.
const BlockName = "ProofSlot"

// KeyPrefix prefixes every ProofSlot cache key.
const KeyPrefix = "proof-slot"

// Type is the ProofSlot discriminator.
type Type string

const (
	TypeCaseStudy Type = "case_study"
	TypeAggregate Type = "aggregate"
	TypeTeam      Type = "team"
)

// DefaultType is used when neither the input nor the backend names a type.
const DefaultType = TypeCaseStudy

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeCaseStudy, TypeAggregate, TypeTeam:
		return true
	}
	return false
}

// Input selects one slot. All fields are optional.
type Input struct {
	City     string `json:"city,omitempty"`
	Service  string `json:"service,omitempty"`
	Industry string `json:"industry,omitempty"`
	Type     Type   `json:"type,omitempty"`
}

// SlotType returns in.Type, or DefaultType when unset.
func (in Input) SlotType() Type {
	if in.Type == "" {
		return DefaultType
	}
	return in.Type
}

// Payload is the type-specific content of a Slot. It is implemented only by
// CaseStudy, Aggregate, Team and Unknown.
type Payload interface {
	Type() Type
	isPayload()
}

// CaseStudy proves with a reference to a published case study.
type CaseStudy struct {
	Ref *CaseStudyRef
}

// Aggregate proves with numbers across many engagements.
type Aggregate struct {
	Metrics []Metric
}

// Team proves with the credentials of the people doing the work.
type Team struct {
	Members []TeamProof
}

// Unknown holds a slot whose tag is not a known type. It never validates.
type Unknown struct {
	Tag Type
}

func (CaseStudy) Type() Type { return TypeCaseStudy }
func (Aggregate) Type() Type { return TypeAggregate }
func (Team) Type() Type      { return TypeTeam }
func (u Unknown) Type() Type { return u.Tag }

func (CaseStudy) isPayload() {}
func (Aggregate) isPayload() {}
func (Team) isPayload()      {}
func (Unknown) isPayload()   {}

type CaseStudyRef struct {
	ID          string       `json:"case_study_id,omitempty" mapstructure:"case_study_id"`
	URL         string       `json:"case_study_url,omitempty" mapstructure:"case_study_url"`
	Verified    bool         `json:"case_study_verified,omitempty" mapstructure:"case_study_verified"`
	Testimonial *Testimonial `json:"testimonial,omitempty" mapstructure:"testimonial"`
	Metrics     []Metric     `json:"metrics,omitempty" mapstructure:"metrics"`
}

type Testimonial struct {
	ClientName     string `json:"client_name,omitempty" mapstructure:"client_name"`
	ClientVerified bool   `json:"client_verified,omitempty" mapstructure:"client_verified"`
	Quote          string `json:"quote,omitempty" mapstructure:"quote"`
}

// Metric is a named result. Value is a number or a string such as "3x".
type Metric struct {
	Metric  string `json:"metric" mapstructure:"metric"`
	Value   any    `json:"value" mapstructure:"value"`
	Context string `json:"context,omitempty" mapstructure:"context"`
}

type TeamProof struct {
	Member      string `json:"member" mapstructure:"member"`
	Credential  string `json:"credential" mapstructure:"credential"`
	Attribution string `json:"attribution" mapstructure:"attribution"`
}

// Slot is a ProofSlot.
type Slot struct {
	Payload     Payload
	LastUpdated string // ISO 8601
}

// Type returns the payload's type, or "" when there is no payload.
func (s *Slot) Type() Type {
	if s == nil || s.Payload == nil {
		return ""
	}
	return s.Payload.Type()
}

// wireSlot is the flat backend shape.
type wireSlot struct {
	Type             Type          `json:"type" mapstructure:"type"`
	CaseStudyRef     *CaseStudyRef `json:"case_study_ref,omitempty" mapstructure:"case_study_ref"`
	AggregateMetrics []Metric      `json:"aggregate_metrics,omitempty" mapstructure:"aggregate_metrics"`
	TeamProof        []TeamProof   `json:"team_proof,omitempty" mapstructure:"team_proof"`
	LastUpdated      string        `json:"last_updated" mapstructure:"last_updated"`
}

func (w wireSlot) slot() *Slot {
	s := &Slot{LastUpdated: w.LastUpdated}
	switch w.Type {
	case TypeCaseStudy:
		s.Payload = CaseStudy{Ref: w.CaseStudyRef}
	case TypeAggregate:
		s.Payload = Aggregate{Metrics: w.AggregateMetrics}
	case TypeTeam:
		s.Payload = Team{Members: w.TeamProof}
	case "":
		// no payload
	default:
		s.Payload = Unknown{Tag: w.Type}
	}
	return s
}

func wireOf(s *Slot) wireSlot {
	w := wireSlot{LastUpdated: s.LastUpdated}
	switch p := s.Payload.(type) {
	case CaseStudy:
		w.Type, w.CaseStudyRef = TypeCaseStudy, p.Ref
	case Aggregate:
		w.Type, w.AggregateMetrics = TypeAggregate, p.Metrics
	case Team:
		w.Type, w.TeamProof = TypeTeam, p.Members
	case Unknown:
		w.Type = p.Tag
	}
	return w
}

// MarshalJSON implements json.Marshaler.
func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireOf(&s))
}

// UnmarshalJSON implements json.Unmarshaler. Payload fields that do not
// match the type tag are ignored.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var w wireSlot
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = *w.slot()
	return nil
}
