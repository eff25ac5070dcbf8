// Package proof provides the ProofSlot block: one piece of social proof for
// a page, either a case study reference, a set of aggregate metrics, or
// team credentials.
//
// A Slot carries exactly one Payload. The payload's variant is the slot's
// type, so a slot can never claim one type while holding another type's
// data. The JSON form keeps the flat shape used by content backends, with a
// "type" tag and one payload field per type; decoding reads only the field
// that matches the tag.
package proof
