package risk

import (
	"math"

	"github.com/suppliershield/suppliershield/pkg/graph"
	"github.com/suppliershield/suppliershield/pkg/model"
)

// Dimensions is the per-supplier risk breakdown produced by the
// scorer. All scores are 0-100, higher = riskier. The composite is
// the weighted sum clamped to [0,100].
type Dimensions struct {
	Geopolitical    float64
	NaturalDisaster float64
	Financial       float64
	Logistics       float64
	Concentration   float64
	Composite       float64
	Category        model.RiskCategory
}

// ScoreSet maps supplier ID to its scored dimensions. Produced once by
// the scorer and read-only afterwards.
type ScoreSet map[string]Dimensions

// Composite returns the composite score for a supplier.
func (s ScoreSet) Composite(id string) (float64, bool) {
	d, ok := s[id]
	return d.Composite, ok
}

// Scorer computes composite risk from supplier and country attributes.
// It reads only node enumeration and in-degrees from the graph; it
// never reads propagated risk.
type Scorer struct {
	net     *graph.Network
	weights Weights
}

// NewScorer creates a scorer. Weight validation happens here, at load
// time: an invalid weight set is a ConfigError before any node is
// scored.
func NewScorer(net *graph.Network, weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{net: net, weights: weights}, nil
}

// ScoreAll computes dimensions and composite for every node.
func (s *Scorer) ScoreAll() ScoreSet {
	scores := make(ScoreSet, s.net.NodeCount())
	for _, node := range s.net.Nodes() {
		scores[node.ID] = s.score(node)
	}
	return scores
}

func (s *Scorer) score(node *model.SupplierNode) Dimensions {
	d := Dimensions{
		Geopolitical:    float64(node.CountryRisk.PoliticalStability),
		NaturalDisaster: float64(node.CountryRisk.NaturalDisasterFreq),
		Financial:       float64(100 - node.FinancialHealth),
		Logistics:       float64(100 - node.CountryRisk.LogisticsPerformance),
		Concentration:   s.concentration(node),
	}

	composite := d.Geopolitical*s.weights.Geopolitical +
		d.NaturalDisaster*s.weights.NaturalDisaster +
		d.Financial*s.weights.Financial +
		d.Logistics*s.weights.Logistics +
		d.Concentration*s.weights.Concentration

	d.Composite = round2(clamp(composite, 0, 100))
	d.Category = model.CategoryForScore(d.Composite)
	return d
}

// concentration scores how exposed a supplier is to losing its own
// sources. Incoming edge count is the number of upstream suppliers
// feeding this node.
func (s *Scorer) concentration(node *model.SupplierNode) float64 {
	incoming := s.net.InDegree(node.ID)
	if incoming <= 1 {
		if node.Tier == 1 {
			return tier1SoleSourceRisk
		}
		return soleSourceRisk
	}
	return math.Max(concentrationFloor, soleSourceRisk-float64(incoming)*reliefPerExtraSource)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// round2 rounds to two decimals; stored scores are rounded so repeated
// runs produce byte-identical results.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
