// Package localdata provides the LocalDataCard block: local SERP, market,
// review, competitor and ranking-environment statistics for one
// city/state/service combination.
//
// A Service owns its cache and serves cards through any Provider. Three
// providers ship with the package: SeedProvider for curated in-memory data,
// AdapterProvider for a real backend, and StubProvider which fails loudly.
package localdata
