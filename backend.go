package pageblocks

import (
	"github.com/jonwraymond/pageblocks/block"
	"github.com/jonwraymond/pageblocks/industrykpi"
	"github.com/jonwraymond/pageblocks/localdata"
	"github.com/jonwraymond/pageblocks/proof"
	"github.com/jonwraymond/pageblocks/resilience"
)

// Backend kinds, reported in logs and health details.
const (
	KindCustom  = "custom"
	KindAdapter = "adapter"
	KindSeed    = "seed"
	KindStub    = "stub"
)

// Backends supplies per-block backends. For each block a Provider wins
// over an Adapter; leave both nil to fall back to the seed file or stub.
type Backends struct {
	LocalData        localdata.Provider
	LocalDataAdapter block.AdapterFunc[localdata.Input]

	IndustryKPI        industrykpi.Provider
	IndustryKPIAdapter block.AdapterFunc[industrykpi.Input]

	Proof        proof.Provider
	ProofAdapter block.AdapterFunc[proof.Input]
}

// source describes how to build one block's provider.
type source[I, T any] struct {
	provider   block.Provider[I, T]
	adapter    block.AdapterFunc[I]
	seedPath   string
	loadSeed   func(path string) (block.Provider[I, T], error)
	newAdapter func(block.AdapterFunc[I]) block.Provider[I, T]
	stub       func() block.Provider[I, T]
}

// resolve picks the provider and reports its kind. policy guards adapter
// calls only.
func (s source[I, T]) resolve(policy *resilience.Policy) (block.Provider[I, T], string, error) {
	switch {
	case s.provider != nil:
		return s.provider, KindCustom, nil
	case s.adapter != nil:
		return s.newAdapter(resilience.WrapAdapter(s.adapter, policy)), KindAdapter, nil
	case s.seedPath != "":
		p, err := s.loadSeed(s.seedPath)
		if err != nil {
			return nil, "", err
		}
		return p, KindSeed, nil
	default:
		return s.stub(), KindStub, nil
	}
}
