package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/suppliershield/suppliershield/pkg/model"
)

// Component catalogs per tier: tier 3 supplies raw materials, tier 2
// components, tier 1 assemblies.
var (
	tier1Components = []string{
		"Assembled PCB Module",
		"Final Electronics Assembly",
		"Power Supply Unit",
		"Display Panel Assembly",
		"Battery Pack",
		"Sensor Module",
		"Control Unit",
		"Housing & Enclosure",
	}
	tier2Components = []string{
		"Semiconductor Chip",
		"Capacitor Array",
		"LED Component",
		"Connector Set",
		"Resistor Network",
		"Microcontroller",
		"Memory Module",
		"Circuit Board",
	}
	tier3Components = []string{
		"Copper Wire",
		"Silicon Wafer",
		"Rare Earth Elements",
		"Plastic Resin",
		"Aluminum Sheet",
		"Glass Substrate",
		"Lithium Compound",
		"Steel Alloy",
	}

	namePrefixes = []string{"Global", "Precision", "Advanced", "International", "Superior"}
	nameSuffixes = []string{"Industries", "Manufacturing", "Systems", "Technologies", "Solutions"}

	productNames = []string{
		"SmartSensor Pro X1",
		"Industrial Controller Z400",
		"DataLogger Elite",
		"Precision Monitor DX",
		"AutomationHub 5000",
		"FlexDisplay Module",
		"PowerCore System",
		"ConnectNode Gateway",
		"EdgeProcessor Unit",
		"SecureComm Platform",
	}
)

// GeneratorConfig sizes the synthetic network. Zero values fall back to
// the defaults (40 suppliers per tier, 10 products, seed 42).
type GeneratorConfig struct {
	Tier1Count   int
	Tier2Count   int
	Tier3Count   int
	ProductCount int
	Seed         int64
}

func (c GeneratorConfig) withDefaults() GeneratorConfig {
	if c.Tier1Count == 0 {
		c.Tier1Count = 40
	}
	if c.Tier2Count == 0 {
		c.Tier2Count = 40
	}
	if c.Tier3Count == 0 {
		c.Tier3Count = 40
	}
	if c.ProductCount == 0 {
		c.ProductCount = 10
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	return c
}

// Dataset is a complete generated input: the four tables an engine
// consumes.
type Dataset struct {
	Suppliers    []model.SupplierRecord
	Dependencies []model.DependencyRecord
	CountryRisk  []model.CountryRiskRecord
	Products     []model.ProductBOMRecord
}

// Generate builds a synthetic three-tier supplier network. The same
// config always produces the same dataset: all randomness flows from
// one seeded source.
func Generate(cfg GeneratorConfig) Dataset {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	countries := BuiltinCountryRisk()

	ds := Dataset{CountryRisk: countries}

	// Tier 3 first so raw-material suppliers get the lowest IDs,
	// then tier 2, then tier 1.
	id := 1
	var tier3, tier2, tier1 []string
	for i := 0; i < cfg.Tier3Count; i++ {
		rec := makeSupplier(rng, id, 3, tier3Components, countries)
		ds.Suppliers = append(ds.Suppliers, rec)
		tier3 = append(tier3, rec.ID)
		id++
	}
	for i := 0; i < cfg.Tier2Count; i++ {
		rec := makeSupplier(rng, id, 2, tier2Components, countries)
		ds.Suppliers = append(ds.Suppliers, rec)
		tier2 = append(tier2, rec.ID)
		id++
	}
	for i := 0; i < cfg.Tier1Count; i++ {
		rec := makeSupplier(rng, id, 1, tier1Components, countries)
		ds.Suppliers = append(ds.Suppliers, rec)
		tier1 = append(tier1, rec.ID)
		id++
	}

	// Each tier-2 supplier draws 1-3 tier-3 sources, each tier-1 draws
	// 2-5 tier-2 sources. Weight is the share of the component coming
	// from that source.
	for _, target := range tier2 {
		for _, source := range sample(rng, tier3, 1+rng.Intn(3)) {
			ds.Dependencies = append(ds.Dependencies, model.DependencyRecord{
				SourceID: source,
				TargetID: target,
				Weight:   round2(0.3 + rng.Float64()*0.7),
			})
		}
	}
	for _, target := range tier1 {
		for _, source := range sample(rng, tier2, 2+rng.Intn(4)) {
			ds.Dependencies = append(ds.Dependencies, model.DependencyRecord{
				SourceID: source,
				TargetID: target,
				Weight:   round2(0.4 + rng.Float64()*0.6),
			})
		}
	}

	// Products draw 3-8 tier-1 suppliers each.
	for i := 0; i < cfg.ProductCount; i++ {
		name := fmt.Sprintf("Product %d", i+1)
		if i < len(productNames) {
			name = productNames[i]
		}
		ds.Products = append(ds.Products, model.ProductBOMRecord{
			ProductID:     fmt.Sprintf("P%03d", i+1),
			ProductName:   name,
			AnnualRevenue: round2(2.0 + rng.Float64()*13.0),
			SupplierIDs:   sample(rng, tier1, 3+rng.Intn(6)),
		})
	}

	return ds
}

func makeSupplier(rng *rand.Rand, id, tier int, components []string, countries []model.CountryRiskRecord) model.SupplierRecord {
	country := countries[rng.Intn(len(countries))]

	// Contract value and lead time scale with tier: assemblies cost
	// more and ship faster than raw materials.
	var contractValue float64
	var leadTime int
	switch tier {
	case 1:
		contractValue = 1.5 + rng.Float64()*3.5
		leadTime = 10 + rng.Intn(15)
	case 2:
		contractValue = 0.5 + rng.Float64()*2.0
		leadTime = 20 + rng.Intn(20)
	default:
		contractValue = 0.2 + rng.Float64()*1.0
		leadTime = 30 + rng.Intn(30)
	}

	// Financial health correlates with country stability; disruption
	// history with disaster frequency.
	baseHealth := float64(100 - country.PoliticalStability)
	health := int(math.Round(baseHealth + rng.NormFloat64()*20))
	if health < 0 {
		health = 0
	}
	if health > 100 {
		health = 100
	}

	return model.SupplierRecord{
		ID:              fmt.Sprintf("S%03d", id),
		Name:            fmt.Sprintf("%s %s %s", country.Country, namePrefixes[rng.Intn(len(namePrefixes))], nameSuffixes[rng.Intn(len(nameSuffixes))]),
		Tier:            tier,
		Component:       components[rng.Intn(len(components))],
		Country:         country.Country,
		CountryCode:     country.CountryCode,
		Region:          RegionForCode(country.CountryCode),
		ContractValue:   round2(contractValue),
		LeadTimeDays:    leadTime,
		FinancialHealth: health,
		PastDisruptions: poisson(rng, float64(country.NaturalDisasterFreq)/100*3),
		HasBackup:       rng.Float64() < 0.30,
	}
}

// sample draws n distinct elements, preserving draw order. n is capped
// at len(pool).
func sample(rng *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

// poisson draws from a Poisson distribution via Knuth's method; fine
// for the small lambdas used here.
func poisson(rng *rand.Rand, lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
