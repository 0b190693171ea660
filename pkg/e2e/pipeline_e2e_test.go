// Package e2e runs the full pipeline over a generated network and
// checks cross-stage consistency no single package test can see.
package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suppliershield/suppliershield/pkg/dataset"
	"github.com/suppliershield/suppliershield/pkg/engine"
	"github.com/suppliershield/suppliershield/pkg/graph"
	"github.com/suppliershield/suppliershield/pkg/logging"
	"github.com/suppliershield/suppliershield/pkg/metrics"
	"github.com/suppliershield/suppliershield/pkg/model"
	"github.com/suppliershield/suppliershield/pkg/recommend"
	"github.com/suppliershield/suppliershield/pkg/simulation"
)

func newEngine(t *testing.T, seed int64) *engine.Engine {
	t.Helper()
	ds := dataset.Generate(dataset.GeneratorConfig{Seed: seed})
	eng, err := engine.New(engine.Input{
		Suppliers:    ds.Suppliers,
		Dependencies: ds.Dependencies,
		CountryRisk:  ds.CountryRisk,
		Products:     ds.Products,
	},
		engine.WithLogger(logging.NewNopLogger()),
		engine.WithMetrics(metrics.NewRegistry()),
	)
	require.NoError(t, err)
	return eng
}

func TestFullPipeline(t *testing.T) {
	eng := newEngine(t, 42)
	net := eng.Network()

	require.Equal(t, 120, net.NodeCount())
	require.Empty(t, eng.DataErrors(), "generated data should pass ingestion clean")
	require.False(t, graph.HasFatal(eng.Validate()))

	scores, err := eng.ScoreAll()
	require.NoError(t, err)
	require.Len(t, scores, 120)

	propagated, err := eng.Propagate()
	require.NoError(t, err)
	for id, dims := range scores {
		assert.GreaterOrEqual(t, dims.Composite, 0.0)
		assert.LessOrEqual(t, dims.Composite, 100.0)
		assert.GreaterOrEqual(t, propagated[id], dims.Composite,
			"propagation must never lower %s", id)
	}

	// Tier-3 roots have no upstream, so propagation changes nothing.
	for _, id := range net.TierNodes(3) {
		assert.Equal(t, scores[id].Composite, propagated[id], "root %s", id)
	}

	spofs, err := eng.DetectSPOFs()
	require.NoError(t, err)
	for _, s := range spofs {
		node, ok := net.Node(s.SupplierID)
		require.True(t, ok)
		assert.False(t, node.HasBackup, "backed-up supplier %s flagged as SPOF", s.SupplierID)
		assert.GreaterOrEqual(t, s.ValueAtRisk, node.ContractValue)
	}

	recs, err := eng.Recommend()
	require.NoError(t, err)
	summary := recommend.Summarize(recs)
	assert.Equal(t, len(recs), summary.Total)

	rank := map[recommend.Severity]int{
		recommend.SeverityCritical: 0,
		recommend.SeverityHigh:     1,
		recommend.SeverityMedium:   2,
		recommend.SeverityWatch:    3,
	}
	for i := 1; i < len(recs); i++ {
		prev, cur := recs[i-1], recs[i]
		require.LessOrEqual(t, rank[prev.Severity], rank[cur.Severity])
		if prev.Severity == cur.Severity {
			assert.GreaterOrEqual(t, prev.ImpactScore, cur.ImpactScore,
				"impact order broken within %s", cur.Severity)
		}
	}
}

func TestDeterministicAcrossEngines(t *testing.T) {
	a := newEngine(t, 42)
	b := newEngine(t, 42)

	pa, err := a.Propagate()
	require.NoError(t, err)
	pb, err := b.Propagate()
	require.NoError(t, err)
	assert.Equal(t, pa, pb, "same seed must yield identical propagated scores")

	ra, _, err := a.RankCriticality(0)
	require.NoError(t, err)
	rb, _, err := b.RankCriticality(0)
	require.NoError(t, err)
	assert.Equal(t, ra, rb)

	cfg := simulation.Config{
		Target:       a.Network().TierNodes(3)[0],
		DurationDays: 45,
		Iterations:   1000,
		Scenario:     simulation.ScenarioSingleNode,
		Seed:         7,
	}
	sa, err := a.Simulate(cfg)
	require.NoError(t, err)
	sb, err := b.Simulate(cfg)
	require.NoError(t, err)
	assert.Equal(t, sa.Impacts, sb.Impacts)
	assert.Equal(t, sa.Stats, sb.Stats)
	assert.NotEqual(t, sa.RunID, sb.RunID)
}

func TestCriticalityAgreesWithExposure(t *testing.T) {
	eng := newEngine(t, 42)

	ranked, pareto, err := eng.RankCriticality(0)
	require.NoError(t, err)
	require.Len(t, ranked, 120)
	assert.Equal(t, 120, pareto.TotalSuppliers)
	assert.LessOrEqual(t, pareto.SuppliersFor50, pareto.SuppliersFor80)

	propagated, err := eng.Propagate()
	require.NoError(t, err)
	for i, e := range ranked {
		assert.Equal(t, i+1, e.Rank)
		want := propagated[e.SupplierID] / 100 * e.TotalExposure
		assert.InDelta(t, want, e.Criticality, 1e-9, "criticality formula for %s", e.SupplierID)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Criticality, e.Criticality)
		}
	}
}

func TestQuarantineDoesNotPoisonPipeline(t *testing.T) {
	ds := dataset.Generate(dataset.GeneratorConfig{
		Tier1Count: 6, Tier2Count: 6, Tier3Count: 6, ProductCount: 3, Seed: 9,
	})
	ds.Suppliers = append(ds.Suppliers, model.SupplierRecord{ID: "BAD", Tier: 9})
	ds.Dependencies = append(ds.Dependencies, model.DependencyRecord{
		SourceID: "BAD", TargetID: "S001", Weight: 0.5,
	})

	eng, err := engine.New(engine.Input{
		Suppliers:    ds.Suppliers,
		Dependencies: ds.Dependencies,
		CountryRisk:  ds.CountryRisk,
		Products:     ds.Products,
	})
	require.NoError(t, err)

	// The bad supplier and its dangling edge are quarantined, the rest
	// of the pipeline runs untouched.
	require.Len(t, eng.DataErrors(), 2)
	assert.Equal(t, 18, eng.Network().NodeCount())

	propagated, err := eng.Propagate()
	require.NoError(t, err)
	assert.Len(t, propagated, 18)
	assert.NotContains(t, propagated, "BAD")
}
