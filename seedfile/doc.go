// Package seedfile decodes seed records for the block seed providers from
// JSON, YAML or TOML files.
//
// A file holds either a top-level list of records or a table with a
// "records" key. TOML has no top-level arrays, so TOML files always use the
// second form:
//
//	[[records]]
//	city = "Austin"
//	state = "TX"
//
// Records are normalized to JSON and decoded with the block types' json
// tags, so one record shape works in all three formats.
package seedfile
