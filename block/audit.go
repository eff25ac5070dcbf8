package block

import "sort"

// AuditSummary aggregates the validation outcomes of many retrievals.
type AuditSummary struct {
	Total     int
	Valid     int
	Invalid   int
	FromCache int
	ByCode    map[string]int // occurrences of each error code
}

// TopCodes returns error codes ordered by count, then name.
func (s AuditSummary) TopCodes() []string {
	codes := make([]string, 0, len(s.ByCode))
	for code := range s.ByCode {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if s.ByCode[codes[i]] != s.ByCode[codes[j]] {
			return s.ByCode[codes[i]] > s.ByCode[codes[j]]
		}
		return codes[i] < codes[j]
	})
	return codes
}

// Summarize builds an AuditSummary from results.
func Summarize[T any](results []Result[T]) AuditSummary {
	s := AuditSummary{Total: len(results), ByCode: make(map[string]int)}
	for _, r := range results {
		if r.Validation.Valid {
			s.Valid++
		} else {
			s.Invalid++
		}
		if r.FromCache {
			s.FromCache++
		}
		for _, e := range r.Validation.Errors {
			s.ByCode[e.Code]++
		}
	}
	return s
}
