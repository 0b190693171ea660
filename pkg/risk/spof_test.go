package risk

import (
	"testing"

	"github.com/suppliershield/suppliershield/pkg/model"
)

func TestSPOFHighRiskNoBackup(t *testing.T) {
	net := buildNet(t,
		[]model.SupplierRecord{testSupplier("S3", 3), testSupplier("S2", 2)},
		[]model.DependencyRecord{testDep("S3", "S2")},
	)
	// S2 is above the threshold; S3 would be a sole supplier but the
	// high-risk criterion is checked first for S2.
	propagated := PropagationSet{"S3": 40, "S2": 72}

	spofs := NewSPOFDetector(net, propagated).Detect()

	byID := make(map[string]SPOF)
	for _, s := range spofs {
		byID[s.SupplierID] = s
	}
	if byID["S2"].Reason != ReasonHighRisk {
		t.Errorf("S2 reason = %v, want %v", byID["S2"].Reason, ReasonHighRisk)
	}
	if byID["S3"].Reason != ReasonSoleSupplier {
		t.Errorf("S3 reason = %v, want %v", byID["S3"].Reason, ReasonSoleSupplier)
	}
}

func TestSPOFBackupExcludes(t *testing.T) {
	backed := testSupplier("S3", 3)
	backed.HasBackup = true
	net := buildNet(t,
		[]model.SupplierRecord{backed, testSupplier("S2", 2)},
		[]model.DependencyRecord{testDep("S3", "S2")},
	)
	// Sole supplier at maximum risk, but a backup exists.
	propagated := PropagationSet{"S3": 100, "S2": 10}

	for _, s := range NewSPOFDetector(net, propagated).Detect() {
		if s.SupplierID == "S3" {
			t.Errorf("backed-up supplier flagged as SPOF: %+v", s)
		}
	}
}

func TestSPOFDisconnection(t *testing.T) {
	// Diamond A -> {B1,B2} -> C. Neither B is individually critical, but
	// losing C severs every tier-3 to tier-1 path.
	net := buildNet(t,
		[]model.SupplierRecord{testSupplier("A", 3), testSupplier("B1", 2), testSupplier("B2", 2), testSupplier("C", 1)},
		[]model.DependencyRecord{testDep("A", "B1"), testDep("A", "B2"), testDep("B1", "C"), testDep("B2", "C")},
	)
	propagated := PropagationSet{"A": 30, "B1": 30, "B2": 30, "C": 30}

	spofs := NewSPOFDetector(net, propagated).Detect()

	byID := make(map[string]SPOF)
	for _, s := range spofs {
		byID[s.SupplierID] = s
	}
	if s, ok := byID["C"]; !ok || s.Reason != ReasonDisconnects {
		t.Errorf("C = %+v, want disconnection SPOF", byID["C"])
	}
	if _, ok := byID["B1"]; ok {
		t.Error("B1 flagged but an alternate path through B2 exists")
	}
	if _, ok := byID["B2"]; ok {
		t.Error("B2 flagged but an alternate path through B1 exists")
	}
}

func TestSPOFImpactQuantification(t *testing.T) {
	s3 := testSupplier("S3", 3)
	s3.ContractValue = 1.0
	s2 := testSupplier("S2", 2)
	s2.ContractValue = 2.0
	s1 := testSupplier("S1", 1)
	s1.ContractValue = 4.0
	s1.HasBackup = true // keep the sink out of the result

	net := buildNet(t,
		[]model.SupplierRecord{s3, s2, s1},
		[]model.DependencyRecord{testDep("S3", "S2"), testDep("S2", "S1")},
	)
	propagated := PropagationSet{"S3": 40, "S2": 40, "S1": 40}

	spofs := NewSPOFDetector(net, propagated).Detect()
	if len(spofs) != 2 {
		t.Fatalf("expected S3 and S2, got %+v", spofs)
	}

	// Ordered by total downstream impact: S3 (2 descendants) first.
	top := spofs[0]
	if top.SupplierID != "S3" {
		t.Fatalf("top SPOF = %s, want S3", top.SupplierID)
	}
	if top.TotalImpact != 2 || top.DirectImpact != 1 {
		t.Errorf("S3 impact = total %d direct %d, want 2/1", top.TotalImpact, top.DirectImpact)
	}
	// Value at risk covers own contract plus the full descendant set.
	if top.ValueAtRisk != 7.0 {
		t.Errorf("S3 ValueAtRisk = %v, want 7.0", top.ValueAtRisk)
	}
	if top.ImpactMultiplier != 7.0 {
		t.Errorf("S3 ImpactMultiplier = %v, want 7.0", top.ImpactMultiplier)
	}
	if top.TierImpact[2] != 1 || top.TierImpact[1] != 1 {
		t.Errorf("S3 TierImpact = %v, want one node in each downstream tier", top.TierImpact)
	}

	second := spofs[1]
	if second.SupplierID != "S2" || second.ValueAtRisk != 6.0 || second.ImpactMultiplier != 3.0 {
		t.Errorf("S2 = %+v, want ValueAtRisk 6.0, multiplier 3.0", second)
	}
}

func TestCriticalSPOFs(t *testing.T) {
	spofs := []SPOF{
		{SupplierID: "A", PropagatedRisk: 80},
		{SupplierID: "B", PropagatedRisk: 50},
		{SupplierID: "C", PropagatedRisk: 60},
	}
	critical := CriticalSPOFs(spofs, 60)
	if len(critical) != 2 {
		t.Fatalf("len = %d, want 2", len(critical))
	}
	if critical[0].SupplierID != "A" || critical[1].SupplierID != "C" {
		t.Errorf("critical = %+v, want A and C in input order", critical)
	}
}
