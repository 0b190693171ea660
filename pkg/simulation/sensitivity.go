package simulation

import (
	"sort"

	"github.com/suppliershield/suppliershield/pkg/graph"
	"github.com/suppliershield/suppliershield/pkg/impact"
	"github.com/suppliershield/suppliershield/pkg/model"
	"github.com/suppliershield/suppliershield/pkg/risk"
)

// CriticalityEntry is one supplier's row in the sensitivity ranking.
// Criticality = propagated risk (as a fraction) times total revenue
// exposure.
type CriticalityEntry struct {
	Rank       int
	SupplierID string
	Name       string
	Tier       int
	Country    string
	Component  string

	ContractValue  float64
	PropagatedRisk float64
	Category       model.RiskCategory

	DirectExposure   float64
	IndirectExposure float64
	TotalExposure    float64
	Criticality      float64

	AffectedProducts    int
	DownstreamSuppliers int
}

// ParetoSummary reports how concentrated criticality is across the
// supplier base.
type ParetoSummary struct {
	TotalSuppliers   int
	TotalCriticality float64

	// SuppliersFor50/80: the smallest count of top-ranked suppliers
	// whose cumulative criticality reaches 50% / 80% of the total.
	SuppliersFor50 int
	SuppliersFor80 int

	// Top10Share is the criticality fraction held by the ten
	// highest-ranked suppliers.
	Top10Share float64
}

// Analyzer ranks suppliers by criticality and computes Pareto cuts.
type Analyzer struct {
	net        *graph.Network
	propagated risk.PropagationSet
	tracer     *impact.Tracer
}

// NewAnalyzer creates a sensitivity analyzer.
func NewAnalyzer(net *graph.Network, propagated risk.PropagationSet, tracer *impact.Tracer) *Analyzer {
	return &Analyzer{net: net, propagated: propagated, tracer: tracer}
}

// Rank computes the full criticality ranking, descending, with a
// stable tie-break on supplier ID.
func (a *Analyzer) Rank() []CriticalityEntry {
	entries := make([]CriticalityEntry, 0, a.net.NodeCount())
	for _, node := range a.net.Nodes() {
		exposure, err := a.tracer.RevenueExposure(node.ID)
		if err != nil {
			continue // node enumeration came from the same network; unreachable
		}
		propagated := a.propagated[node.ID]
		entries = append(entries, CriticalityEntry{
			SupplierID:          node.ID,
			Name:                node.Name,
			Tier:                node.Tier,
			Country:             node.Country,
			Component:           node.Component,
			ContractValue:       node.ContractValue,
			PropagatedRisk:      propagated,
			Category:            model.CategoryForScore(propagated),
			DirectExposure:      exposure.DirectRevenue,
			IndirectExposure:    exposure.IndirectRevenue,
			TotalExposure:       exposure.TotalExposure,
			Criticality:         propagated / 100.0 * exposure.TotalExposure,
			AffectedProducts:    exposure.AffectedProducts,
			DownstreamSuppliers: exposure.DownstreamCount,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Criticality != entries[j].Criticality {
			return entries[i].Criticality > entries[j].Criticality
		}
		return entries[i].SupplierID < entries[j].SupplierID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Top returns the n highest-criticality suppliers.
func (a *Analyzer) Top(n int) []CriticalityEntry {
	ranked := a.Rank()
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Pareto computes concentration cut points over a ranking produced by
// Rank.
func Pareto(ranked []CriticalityEntry) ParetoSummary {
	summary := ParetoSummary{TotalSuppliers: len(ranked)}
	for _, e := range ranked {
		summary.TotalCriticality += e.Criticality
	}
	if summary.TotalCriticality <= 0 {
		return summary
	}

	cumulative := 0.0
	top10 := 0.0
	for i, e := range ranked {
		cumulative += e.Criticality
		if summary.SuppliersFor50 == 0 && cumulative >= 0.5*summary.TotalCriticality {
			summary.SuppliersFor50 = i + 1
		}
		if summary.SuppliersFor80 == 0 && cumulative >= 0.8*summary.TotalCriticality {
			summary.SuppliersFor80 = i + 1
		}
		if i < 10 {
			top10 = cumulative
		}
	}
	summary.Top10Share = top10 / summary.TotalCriticality
	return summary
}
