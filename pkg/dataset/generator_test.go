package dataset

import (
	"reflect"
	"testing"

	"github.com/suppliershield/suppliershield/pkg/model"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := GeneratorConfig{Tier1Count: 10, Tier2Count: 10, Tier3Count: 10, ProductCount: 5, Seed: 99}
	a := Generate(cfg)
	b := Generate(cfg)
	if !reflect.DeepEqual(a, b) {
		t.Error("same config produced different datasets")
	}

	cfg.Seed = 100
	c := Generate(cfg)
	if reflect.DeepEqual(a.Suppliers, c.Suppliers) {
		t.Error("different seeds produced identical suppliers")
	}
}

func TestGenerateDefaults(t *testing.T) {
	ds := Generate(GeneratorConfig{})
	if len(ds.Suppliers) != 120 {
		t.Errorf("suppliers = %d, want 120", len(ds.Suppliers))
	}
	if len(ds.Products) != 10 {
		t.Errorf("products = %d, want 10", len(ds.Products))
	}
	if len(ds.CountryRisk) != len(BuiltinCountryRisk()) {
		t.Errorf("country risk rows = %d", len(ds.CountryRisk))
	}
}

func TestGenerateRecordsValidate(t *testing.T) {
	ds := Generate(GeneratorConfig{Tier1Count: 15, Tier2Count: 15, Tier3Count: 15, ProductCount: 6, Seed: 3})

	for _, rec := range ds.Suppliers {
		if err := model.ValidateRecord(&rec); err != nil {
			t.Errorf("supplier %s invalid: %v", rec.ID, err)
		}
	}
	for _, rec := range ds.Dependencies {
		if err := model.ValidateRecord(&rec); err != nil {
			t.Errorf("dependency %s->%s invalid: %v", rec.SourceID, rec.TargetID, err)
		}
	}
	for _, rec := range ds.CountryRisk {
		if err := model.ValidateRecord(&rec); err != nil {
			t.Errorf("country %s invalid: %v", rec.CountryCode, err)
		}
	}
	for _, rec := range ds.Products {
		if err := model.ValidateRecord(&rec); err != nil {
			t.Errorf("product %s invalid: %v", rec.ProductID, err)
		}
	}
}

func TestGenerateDependenciesFlowDownstream(t *testing.T) {
	ds := Generate(GeneratorConfig{Tier1Count: 12, Tier2Count: 12, Tier3Count: 12, ProductCount: 4, Seed: 5})

	tierOf := make(map[string]int, len(ds.Suppliers))
	for _, s := range ds.Suppliers {
		tierOf[s.ID] = s.Tier
	}
	for _, d := range ds.Dependencies {
		if tierOf[d.SourceID] != tierOf[d.TargetID]+1 {
			t.Errorf("dependency %s(t%d) -> %s(t%d) skips a tier",
				d.SourceID, tierOf[d.SourceID], d.TargetID, tierOf[d.TargetID])
		}
	}

	// Every tier-2 and tier-1 supplier has at least one source.
	incoming := make(map[string]int)
	for _, d := range ds.Dependencies {
		incoming[d.TargetID]++
	}
	for _, s := range ds.Suppliers {
		if s.Tier < 3 && incoming[s.ID] == 0 {
			t.Errorf("supplier %s (tier %d) has no upstream sources", s.ID, s.Tier)
		}
	}
}

func TestGenerateProductsUseTier1(t *testing.T) {
	ds := Generate(GeneratorConfig{Tier1Count: 8, Tier2Count: 8, Tier3Count: 8, ProductCount: 5, Seed: 11})

	tierOf := make(map[string]int, len(ds.Suppliers))
	for _, s := range ds.Suppliers {
		tierOf[s.ID] = s.Tier
	}
	for _, p := range ds.Products {
		for _, id := range p.SupplierIDs {
			if tierOf[id] != 1 {
				t.Errorf("product %s lists %s (tier %d) in its BOM", p.ProductID, id, tierOf[id])
			}
		}
	}
}

func TestBuiltinCountryRiskSortedCopy(t *testing.T) {
	a := BuiltinCountryRisk()
	for i := 1; i < len(a); i++ {
		if a[i-1].CountryCode >= a[i].CountryCode {
			t.Fatalf("baseline not sorted at %d: %s >= %s", i, a[i-1].CountryCode, a[i].CountryCode)
		}
	}

	a[0].PoliticalStability = 999
	if b := BuiltinCountryRisk(); b[0].PoliticalStability == 999 {
		t.Error("mutating the returned slice leaked into the baseline")
	}
}

func TestRegionForCode(t *testing.T) {
	tests := []struct{ code, want string }{
		{"CN", "Asia-Pacific"},
		{"DE", "Europe"},
		{"US", "North America"},
		{"CD", "Africa"},
		{"ZZ", "Other"},
	}
	for _, tt := range tests {
		if got := RegionForCode(tt.code); got != tt.want {
			t.Errorf("RegionForCode(%s) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestMergeCountryRisk(t *testing.T) {
	baseline := []model.CountryRiskRecord{
		{Country: "Germany", CountryCode: "DE", PoliticalStability: 20},
		{Country: "Japan", CountryCode: "JP", PoliticalStability: 15},
	}
	overrides := []model.CountryRiskRecord{
		{Country: "Germany", CountryCode: "DE", PoliticalStability: 80},
		{Country: "Brazil", CountryCode: "BR", PoliticalStability: 50},
	}

	merged := MergeCountryRisk(baseline, overrides)
	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3", len(merged))
	}
	if merged[0].CountryCode != "BR" || merged[1].CountryCode != "DE" || merged[2].CountryCode != "JP" {
		t.Errorf("order = %s %s %s", merged[0].CountryCode, merged[1].CountryCode, merged[2].CountryCode)
	}
	if merged[1].PoliticalStability != 80 {
		t.Errorf("override lost: DE stability = %d, want 80", merged[1].PoliticalStability)
	}
}
