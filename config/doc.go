// Package config loads the data layer's configuration from a YAML, TOML or
// JSON file and PAGEBLOCKS_ environment variables.
//
// Environment variables override the file; nested keys join with
// underscores, so blocks.proof_slot.ttl is PAGEBLOCKS_BLOCKS_PROOF_SLOT_TTL.
// Durations accept Go syntax ("6h") or a number of seconds.
package config
