package model

// SupplierNode is a supplier in the dependency network. Nodes are
// constructed once by the graph builder from validated records and are
// never mutated afterwards; derived risk values live in stage result
// sets, not on the node.
type SupplierNode struct {
	ID              string
	Name            string
	Tier            int
	Component       string
	Country         string
	CountryCode     string
	Region          string
	ContractValue   float64 // annual contract value in EUR millions
	LeadTimeDays    int
	FinancialHealth int // 0-100, higher = healthier
	PastDisruptions int
	HasBackup       bool
	CountryRisk     CountryRiskProfile
}

// CountryRiskProfile holds the per-country risk indices attached to a
// node at build time. Missing countries fall back to DefaultCountryRisk.
type CountryRiskProfile struct {
	PoliticalStability   int
	NaturalDisasterFreq  int
	LogisticsPerformance int
	TradeRestrictionRisk int
}

// DefaultCountryRisk is the neutral baseline used when a supplier's
// country code has no entry in the country risk table.
var DefaultCountryRisk = CountryRiskProfile{
	PoliticalStability:   50,
	NaturalDisasterFreq:  50,
	LogisticsPerformance: 50,
	TradeRestrictionRisk: 50,
}

// ProductBOM is an immutable bill-of-materials entry: a product, its
// annual revenue and the set of component suppliers it depends on.
type ProductBOM struct {
	ProductID     string
	ProductName   string
	AnnualRevenue float64 // EUR millions
	SupplierIDs   []string
}

// RiskProfile is the assembled per-node risk view: the five dimension
// scores and composite set by the scorer, the propagated score set by
// the propagation stage, and the category derived from the propagated
// score. Each field is written exactly once by the stage that owns it.
type RiskProfile struct {
	Geopolitical    float64
	NaturalDisaster float64
	Financial       float64
	Logistics       float64
	Concentration   float64
	Composite       float64
	Propagated      float64
	Category        RiskCategory
}
