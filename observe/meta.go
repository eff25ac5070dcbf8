package observe

// BlockMeta identifies a block retrieval for telemetry purposes.
type BlockMeta struct {
	Type string // block type, e.g. local-data-card
	Key  string // cache key of the request (optional)
}

// SpanName returns the deterministic span name for this block type.
// Format: block.get.<type>
func (m BlockMeta) SpanName() string {
	return "block.get." + m.Type
}

// Outcome summarizes one orchestrated retrieval.
type Outcome struct {
	FromCache     bool
	Valid         bool
	ProviderError bool
	Codes         []string // validation error codes, in order
}

// Failed reports whether the retrieval produced no usable data.
func (o Outcome) Failed() bool {
	return !o.Valid
}
