package risk

import (
	"fmt"
	"sort"

	"github.com/suppliershield/suppliershield/pkg/graph"
	"github.com/suppliershield/suppliershield/pkg/parallel"
)

// PropagationSet maps supplier ID to its propagated risk score.
// Produced once by the propagator and read-only afterwards.
type PropagationSet map[string]float64

// Propagator cascades risk bottom-up: tier 3 -> tier 2 -> tier 1.
// A node's propagated risk blends its own composite with the mean
// propagated risk of its upstream sources, and never falls below the
// composite.
type Propagator struct {
	net     *graph.Network
	scores  ScoreSet
	workers int
}

// NewPropagator creates a propagator over a fully scored network.
// workers <= 0 uses GOMAXPROCS.
func NewPropagator(net *graph.Network, scores ScoreSet, workers int) (*Propagator, error) {
	for _, id := range net.NodeIDs() {
		if _, ok := scores[id]; !ok {
			return nil, fmt.Errorf("supplier %s has no composite score; scoring must complete before propagation", id)
		}
	}
	return &Propagator{net: net, scores: scores, workers: workers}, nil
}

// PropagateAll processes tiers in strict order 3 -> 2 -> 1. Nodes
// within a tier are independent and computed in parallel; the loop
// does not advance to tier t-1 until tier t is fully written, so a
// node only ever reads finalized upstream values.
func (p *Propagator) PropagateAll() PropagationSet {
	propagated := make(PropagationSet, p.net.NodeCount())

	for tier := 3; tier >= 1; tier-- {
		ids := p.net.TierNodes(tier)
		results := make([]float64, len(ids))
		parallel.ForEach(p.workers, len(ids), func(i int) {
			results[i] = p.propagateNode(ids[i], propagated)
		})
		// Barrier: ForEach returned, the whole tier is final.
		for i, id := range ids {
			propagated[id] = results[i]
		}
	}
	return propagated
}

// propagateNode computes one node's propagated risk from its own
// composite and the already-final propagated values of its upstream
// predecessors. Diamond dependencies average independently per node;
// there is no shared accumulator.
func (p *Propagator) propagateNode(id string, upstream PropagationSet) float64 {
	own := p.scores[id].Composite
	preds := p.net.Predecessors(id)
	if len(preds) == 0 {
		return own
	}

	sum := 0.0
	for _, pred := range preds {
		sum += upstream[pred]
	}
	mean := sum / float64(len(preds))

	blended := own*ownRiskShare + mean*upstreamRiskShare
	if blended < own {
		return own
	}
	return round2(blended)
}

// RiskIncrease describes how much propagation raised a supplier's
// score above its own composite.
type RiskIncrease struct {
	SupplierID string
	Composite  float64
	Propagated float64
	Increase   float64
}

// BiggestIncreases returns the n suppliers whose risk grew the most
// through propagation, largest increase first.
func BiggestIncreases(scores ScoreSet, propagated PropagationSet, n int) []RiskIncrease {
	increases := make([]RiskIncrease, 0, len(propagated))
	for id, prop := range propagated {
		composite := scores[id].Composite
		increases = append(increases, RiskIncrease{
			SupplierID: id,
			Composite:  composite,
			Propagated: prop,
			Increase:   round2(prop - composite),
		})
	}
	sort.Slice(increases, func(i, j int) bool {
		if increases[i].Increase != increases[j].Increase {
			return increases[i].Increase > increases[j].Increase
		}
		return increases[i].SupplierID < increases[j].SupplierID
	})
	if n > 0 && n < len(increases) {
		increases = increases[:n]
	}
	return increases
}

// HiddenVulnerabilities returns suppliers that look safe on their own
// numbers but inherit high risk from upstream: composite below the
// high band, propagated at or above it. Sorted by increase descending.
func HiddenVulnerabilities(scores ScoreSet, propagated PropagationSet) []RiskIncrease {
	const highBand = 55.0
	var hidden []RiskIncrease
	for id, prop := range propagated {
		composite := scores[id].Composite
		if composite < highBand && prop >= highBand {
			hidden = append(hidden, RiskIncrease{
				SupplierID: id,
				Composite:  composite,
				Propagated: prop,
				Increase:   round2(prop - composite),
			})
		}
	}
	sort.Slice(hidden, func(i, j int) bool {
		if hidden[i].Increase != hidden[j].Increase {
			return hidden[i].Increase > hidden[j].Increase
		}
		return hidden[i].SupplierID < hidden[j].SupplierID
	})
	return hidden
}
