package simulation

import (
	"testing"

	"github.com/suppliershield/suppliershield/pkg/graph"
	"github.com/suppliershield/suppliershield/pkg/impact"
	"github.com/suppliershield/suppliershield/pkg/model"
	"github.com/suppliershield/suppliershield/pkg/risk"
)

// analyzerFixture builds M(t2) -> {F1,F2}(t1). F1 carries the big
// product, F2 a small one, M sits behind both.
func analyzerFixture(t *testing.T) *Analyzer {
	t.Helper()
	builder, _ := graph.NewBuilder(nil)
	net, errs := builder.Build(
		[]model.SupplierRecord{
			testSupplier("M", 2, "Asia-Pacific"),
			testSupplier("F1", 1, "Europe"),
			testSupplier("F2", 1, "Europe"),
		},
		[]model.DependencyRecord{testDep("M", "F1"), testDep("M", "F2")},
	)
	if len(errs) > 0 {
		t.Fatalf("records quarantined: %v", errs)
	}
	tracer, _ := impact.NewTracer(net, []model.ProductBOMRecord{
		{ProductID: "P1", ProductName: "Big", AnnualRevenue: 20, SupplierIDs: []string{"F1"}},
		{ProductID: "P2", ProductName: "Small", AnnualRevenue: 4, SupplierIDs: []string{"F2"}},
	})
	propagated := risk.PropagationSet{"M": 50, "F1": 50, "F2": 50}
	return NewAnalyzer(net, propagated, tracer)
}

func TestRankOrdering(t *testing.T) {
	ranked := analyzerFixture(t).Rank()
	if len(ranked) != 3 {
		t.Fatalf("len = %d, want 3", len(ranked))
	}

	// Exposures: F1 direct 20 -> criticality 10; M indirect 24*0.5 -> 6;
	// F2 direct 4 -> 2.
	wantOrder := []string{"F1", "M", "F2"}
	wantCrit := []float64{10, 6, 2}
	for i, e := range ranked {
		if e.SupplierID != wantOrder[i] {
			t.Errorf("rank %d = %s, want %s", i+1, e.SupplierID, wantOrder[i])
		}
		if e.Criticality != wantCrit[i] {
			t.Errorf("%s criticality = %v, want %v", e.SupplierID, e.Criticality, wantCrit[i])
		}
		if e.Rank != i+1 {
			t.Errorf("%s rank = %d, want %d", e.SupplierID, e.Rank, i+1)
		}
	}
}

func TestRankTieBreaksByID(t *testing.T) {
	builder, _ := graph.NewBuilder(nil)
	net, _ := builder.Build(
		[]model.SupplierRecord{testSupplier("B", 1, "Europe"), testSupplier("A", 1, "Europe")},
		nil,
	)
	tracer, _ := impact.NewTracer(net, []model.ProductBOMRecord{
		{ProductID: "P1", ProductName: "Shared", AnnualRevenue: 10, SupplierIDs: []string{"A", "B"}},
	})
	analyzer := NewAnalyzer(net, risk.PropagationSet{"A": 50, "B": 50}, tracer)

	ranked := analyzer.Rank()
	if ranked[0].SupplierID != "A" || ranked[1].SupplierID != "B" {
		t.Errorf("tie should break by ID: %s, %s", ranked[0].SupplierID, ranked[1].SupplierID)
	}
}

func TestTop(t *testing.T) {
	top := analyzerFixture(t).Top(2)
	if len(top) != 2 || top[0].SupplierID != "F1" {
		t.Errorf("Top(2) = %+v", top)
	}
	if got := analyzerFixture(t).Top(0); len(got) != 3 {
		t.Errorf("Top(0) should return everything, got %d", len(got))
	}
}

func TestPareto(t *testing.T) {
	ranked := analyzerFixture(t).Rank()
	pareto := Pareto(ranked)

	if pareto.TotalSuppliers != 3 {
		t.Errorf("TotalSuppliers = %d", pareto.TotalSuppliers)
	}
	if pareto.TotalCriticality != 18 {
		t.Errorf("TotalCriticality = %v, want 18", pareto.TotalCriticality)
	}
	// Cumulative: F1=10 (55.6%), +M=16 (88.9%), +F2=18. The cut is the
	// smallest count reaching the threshold.
	if pareto.SuppliersFor50 != 1 {
		t.Errorf("SuppliersFor50 = %d, want 1", pareto.SuppliersFor50)
	}
	if pareto.SuppliersFor80 != 2 {
		t.Errorf("SuppliersFor80 = %d, want 2", pareto.SuppliersFor80)
	}
	// Fewer than 10 suppliers: the top-10 share is everything.
	if pareto.Top10Share != 1 {
		t.Errorf("Top10Share = %v, want 1", pareto.Top10Share)
	}
}

func TestParetoEmpty(t *testing.T) {
	pareto := Pareto(nil)
	if pareto.TotalSuppliers != 0 || pareto.SuppliersFor50 != 0 || pareto.Top10Share != 0 {
		t.Errorf("empty Pareto = %+v", pareto)
	}
}
