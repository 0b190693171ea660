// Package risk computes per-supplier composite risk scores, cascades
// them bottom-up through the dependency network and detects single
// points of failure.
package risk

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/suppliershield/suppliershield/pkg/validation"
)

// Weights are the risk dimension weights. They must sum to 1.0; this
// is checked once when the scorer is constructed, not per call.
type Weights struct {
	Geopolitical    float64 `yaml:"geopolitical"`
	NaturalDisaster float64 `yaml:"naturalDisaster"`
	Financial       float64 `yaml:"financial"`
	Logistics       float64 `yaml:"logistics"`
	Concentration   float64 `yaml:"concentration"`
}

// WeightSumTolerance is the allowed deviation of the weight sum from 1.0.
const WeightSumTolerance = 1e-3

// DefaultWeights returns the standard dimension weighting.
func DefaultWeights() Weights {
	return Weights{
		Geopolitical:    0.30,
		NaturalDisaster: 0.20,
		Financial:       0.20,
		Logistics:       0.15,
		Concentration:   0.15,
	}
}

// Validate checks every weight is in [0,1] and the sum is 1.0. Returns
// a ConfigError listing all failed checks.
func (w Weights) Validate() error {
	return validation.NewConfigValidator("RiskWeights").
		RangeFloat("Geopolitical", w.Geopolitical, 0, 1).
		RangeFloat("NaturalDisaster", w.NaturalDisaster, 0, 1).
		RangeFloat("Financial", w.Financial, 0, 1).
		RangeFloat("Logistics", w.Logistics, 0, 1).
		RangeFloat("Concentration", w.Concentration, 0, 1).
		SumsTo("Sum", 1.0, WeightSumTolerance,
			w.Geopolitical, w.NaturalDisaster, w.Financial, w.Logistics, w.Concentration).
		Validate()
}

// LoadWeights reads a YAML weight override and validates it.
func LoadWeights(r io.Reader) (Weights, error) {
	var w Weights
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil {
		return Weights{}, fmt.Errorf("decoding risk weights: %w", err)
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

// Concentration risk parameters. A supplier fed by at most one
// upstream source carries the sole-source risk for its tier; each
// additional source reduces the risk down to the floor.
const (
	tier1SoleSourceRisk  = 75.0
	soleSourceRisk       = 60.0
	concentrationFloor   = 10.0
	reliefPerExtraSource = 15.0
)

// Propagation split: a node's own assessment stays dominant while a
// risky upstream can pull the score up, never down.
const (
	ownRiskShare      = 0.6
	upstreamRiskShare = 0.4
)

// SPOFRiskThreshold is the propagated-risk level above which a
// supplier without backup is a SPOF regardless of network position.
const SPOFRiskThreshold = 60.0
