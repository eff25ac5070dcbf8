package seedfile

import (
	"github.com/jonwraymond/pageblocks/industrykpi"
	"github.com/jonwraymond/pageblocks/localdata"
	"github.com/jonwraymond/pageblocks/proof"
)

// LocalDataCards loads LocalDataCard seed records from path.
func LocalDataCards(path string) ([]*localdata.Card, error) {
	var cards []*localdata.Card
	if err := Load(path, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// IndustryKPIMaps loads IndustryKpiMap seed records from path.
func IndustryKPIMaps(path string) ([]*industrykpi.Map, error) {
	var maps []*industrykpi.Map
	if err := Load(path, &maps); err != nil {
		return nil, err
	}
	return maps, nil
}

// ProofSeeds loads scoped ProofSlot seed records from path.
func ProofSeeds(path string) ([]proof.Seed, error) {
	var seeds []proof.Seed
	if err := Load(path, &seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}
