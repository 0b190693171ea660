// Package recommend generates prioritized mitigation actions from
// propagated risk scores, SPOF status and contract exposure.
package recommend

import (
	"fmt"
	"sort"

	"github.com/suppliershield/suppliershield/pkg/graph"
	"github.com/suppliershield/suppliershield/pkg/risk"
)

// Severity orders recommendations by urgency.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityWatch    Severity = "WATCH"
)

// severityRank maps severity to a sort key; lower is more urgent.
func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityWatch:
		return 3
	}
	return 4
}

// Rule identifiers.
const (
	RuleCriticalNoBackup      = "R1_CRITICAL_NO_BACKUP"
	RuleSPOFHighRisk          = "R2_SPOF_HIGH_RISK"
	RuleHighValueNoBackup     = "R3_HIGH_VALUE_NO_BACKUP"
	RuleFinancialHealth       = "R4_FINANCIAL_HEALTH"
	RuleMediumRiskNoBackup    = "R5_MEDIUM_RISK_NO_BACKUP"
	RuleRegionalConcentration = "R6_REGIONAL_CONCENTRATION"
)

// Rule thresholds.
const (
	criticalRiskThreshold = 75.0
	highRiskThreshold     = 55.0
	mediumRiskThreshold   = 45.0
	highValueContract     = 2.0 // EUR millions
	lowFinancialHealth    = 35
	spofImpactMultiplier  = 1.5
	highValueImpactFactor = 10.0

	// regionalConcentrationLimit is the share of tier-1/2 suppliers in
	// one region above which diversification is recommended.
	regionalConcentrationLimit = 40.0
)

// Recommendation is one prioritized mitigation action.
type Recommendation struct {
	Rule     string
	Severity Severity
	Timeline string

	SupplierID string
	Name       string
	Tier       int
	Country    string
	Region     string
	Component  string

	Action string
	Reason string

	// ImpactScore drives ordering within a severity band. Its scale is
	// rule-specific; it is only comparable between recommendations of
	// the same severity.
	ImpactScore    float64
	PropagatedRisk float64
	ContractValue  float64
}

// Engine evaluates every supplier against the rule set.
type Engine struct {
	net        *graph.Network
	propagated risk.PropagationSet
	spofs      map[string]bool
}

// NewEngine creates a recommendation engine. The SPOF list feeds the
// dual-sourcing rule; a nil slice disables it.
func NewEngine(net *graph.Network, propagated risk.PropagationSet, spofs []risk.SPOF) *Engine {
	spofSet := make(map[string]bool, len(spofs))
	for _, s := range spofs {
		spofSet[s.SupplierID] = true
	}
	return &Engine{net: net, propagated: propagated, spofs: spofSet}
}

// Generate runs every rule over every supplier plus the regional
// concentration check, returning recommendations ordered by severity,
// then impact score descending, then supplier ID.
func (e *Engine) Generate() []Recommendation {
	var recs []Recommendation
	for _, node := range e.net.Nodes() {
		recs = append(recs, e.supplierRules(node.ID)...)
	}
	recs = append(recs, e.regionalConcentration()...)

	sort.Slice(recs, func(i, j int) bool {
		ri, rj := severityRank(recs[i].Severity), severityRank(recs[j].Severity)
		if ri != rj {
			return ri < rj
		}
		if recs[i].ImpactScore != recs[j].ImpactScore {
			return recs[i].ImpactScore > recs[j].ImpactScore
		}
		return recs[i].SupplierID < recs[j].SupplierID
	})
	return recs
}

// BySeverity filters a generated list down to one severity band.
func BySeverity(recs []Recommendation, severity Severity) []Recommendation {
	var filtered []Recommendation
	for _, r := range recs {
		if r.Severity == severity {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// supplierRules applies the five per-supplier rules in order. A
// supplier can trigger several rules; each fires independently.
func (e *Engine) supplierRules(id string) []Recommendation {
	node, _ := e.net.Node(id)
	prop := e.propagated[id]
	var recs []Recommendation

	base := Recommendation{
		SupplierID:     node.ID,
		Name:           node.Name,
		Tier:           node.Tier,
		Country:        node.Country,
		Region:         node.Region,
		Component:      node.Component,
		PropagatedRisk: prop,
		ContractValue:  node.ContractValue,
	}

	if prop >= criticalRiskThreshold && !node.HasBackup {
		r := base
		r.Rule = RuleCriticalNoBackup
		r.Severity = SeverityCritical
		r.Timeline = "0-30 days"
		r.Action = fmt.Sprintf("Qualify alternative supplier immediately for %s", node.Component)
		r.Reason = fmt.Sprintf("CRITICAL risk (%.1f) with no backup supplier", prop)
		r.ImpactScore = prop * node.ContractValue
		recs = append(recs, r)
	}

	if e.spofs[id] && prop >= highRiskThreshold {
		r := base
		r.Rule = RuleSPOFHighRisk
		r.Severity = SeverityHigh
		r.Timeline = "30-60 days"
		r.Action = fmt.Sprintf("Establish dual-sourcing for %s", node.Component)
		r.Reason = fmt.Sprintf("Single point of failure with HIGH risk (%.1f)", prop)
		r.ImpactScore = prop * node.ContractValue * spofImpactMultiplier
		recs = append(recs, r)
	}

	if prop >= highRiskThreshold && node.ContractValue >= highValueContract && !node.HasBackup {
		r := base
		r.Rule = RuleHighValueNoBackup
		r.Severity = SeverityHigh
		r.Timeline = "30-60 days"
		r.Action = fmt.Sprintf("Establish backup for high-value dependency: %s", node.Component)
		r.Reason = fmt.Sprintf("EUR %.1fM contract + HIGH risk (%.1f) + no backup", node.ContractValue, prop)
		r.ImpactScore = node.ContractValue * highValueImpactFactor
		recs = append(recs, r)
	}

	if node.FinancialHealth < lowFinancialHealth {
		r := base
		r.Rule = RuleFinancialHealth
		r.Severity = SeverityWatch
		r.Timeline = "Ongoing"
		r.Action = fmt.Sprintf("Monitor supplier financial stability for %s", node.Component)
		r.Reason = fmt.Sprintf("Low financial health score (%d)", node.FinancialHealth)
		r.ImpactScore = node.ContractValue
		recs = append(recs, r)
	}

	if prop >= mediumRiskThreshold && prop < highRiskThreshold && !node.HasBackup {
		r := base
		r.Rule = RuleMediumRiskNoBackup
		r.Severity = SeverityMedium
		r.Timeline = "60-90 days"
		r.Action = fmt.Sprintf("Consider backup qualification for %s", node.Component)
		r.Reason = fmt.Sprintf("MEDIUM risk (%.1f) with no backup", prop)
		r.ImpactScore = prop
		recs = append(recs, r)
	}

	return recs
}

// regionalConcentration flags regions holding more than the limit share
// of tier-1 and tier-2 suppliers. These recommendations carry no
// supplier ID; Region identifies the subject.
func (e *Engine) regionalConcentration() []Recommendation {
	counts := make(map[string]int)
	total := 0
	for _, node := range e.net.Nodes() {
		if node.Tier == 1 || node.Tier == 2 {
			counts[node.Region]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	regions := make([]string, 0, len(counts))
	for region := range counts {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	var recs []Recommendation
	for _, region := range regions {
		share := float64(counts[region]) / float64(total) * 100
		if share <= regionalConcentrationLimit {
			continue
		}
		recs = append(recs, Recommendation{
			Rule:        RuleRegionalConcentration,
			Severity:    SeverityMedium,
			Timeline:    "60-90 days",
			Region:      region,
			Action:      fmt.Sprintf("Diversify sourcing away from %s", region),
			Reason:      fmt.Sprintf("%.1f%% of Tier-1/2 suppliers concentrated in %s", share, region),
			ImpactScore: share,
		})
	}
	return recs
}

// ExecutiveSummary aggregates a recommendation list into the headline
// numbers a report leads with.
type ExecutiveSummary struct {
	Total int

	CriticalCount int
	HighCount     int
	MediumCount   int
	WatchCount    int

	// Contract value carried by CRITICAL / HIGH recommendations, EUR
	// millions. A supplier firing two HIGH rules counts twice, matching
	// the per-recommendation view.
	CriticalContractValue float64
	HighContractValue     float64

	UniqueSuppliers int
	UniqueCountries int
}

// Summarize builds the executive summary for a generated list.
func Summarize(recs []Recommendation) ExecutiveSummary {
	summary := ExecutiveSummary{Total: len(recs)}
	suppliers := make(map[string]bool)
	countries := make(map[string]bool)

	for _, r := range recs {
		switch r.Severity {
		case SeverityCritical:
			summary.CriticalCount++
			summary.CriticalContractValue += r.ContractValue
		case SeverityHigh:
			summary.HighCount++
			summary.HighContractValue += r.ContractValue
		case SeverityMedium:
			summary.MediumCount++
		case SeverityWatch:
			summary.WatchCount++
		}
		if r.SupplierID != "" {
			suppliers[r.SupplierID] = true
		}
		if r.Country != "" {
			countries[r.Country] = true
		}
	}
	summary.UniqueSuppliers = len(suppliers)
	summary.UniqueCountries = len(countries)
	return summary
}
