package risk

import (
	"fmt"
	"sort"

	"github.com/suppliershield/suppliershield/pkg/graph"
)

// SPOFReason identifies which criterion made a supplier a single
// point of failure.
type SPOFReason string

const (
	// ReasonHighRisk: propagated risk above SPOFRiskThreshold with no backup.
	ReasonHighRisk SPOFReason = "high_risk_no_backup"
	// ReasonSoleSupplier: the only incoming source for some downstream node.
	ReasonSoleSupplier SPOFReason = "sole_supplier"
	// ReasonDisconnects: removal severs all tier-3 to tier-1 reachability.
	ReasonDisconnects SPOFReason = "critical_path_disconnection"
)

// SPOF is a detected single point of failure with its quantified
// downstream impact.
type SPOF struct {
	SupplierID     string
	Name           string
	Tier           int
	Component      string
	Country        string
	Reason         SPOFReason
	Detail         string
	PropagatedRisk float64

	// DirectImpact counts immediate successors; TotalImpact counts all
	// forward-reachable descendants.
	DirectImpact int
	TotalImpact  int
	// TierImpact breaks TotalImpact down by tier.
	TierImpact map[int]int

	// ValueAtRisk sums contract values over the failing supplier and
	// its full descendant set; ImpactMultiplier is ValueAtRisk divided
	// by the supplier's own contract value.
	ValueAtRisk      float64
	ImpactMultiplier float64
}

// SPOFDetector finds suppliers whose failure has outsized impact and
// no mitigating backup.
type SPOFDetector struct {
	net        *graph.Network
	propagated PropagationSet

	tier3Roots []string
	// baselineConnected is true when at least one tier-1 node is
	// reachable from the tier-3 roots in the intact graph. The
	// disconnection criterion only applies to otherwise-reachable
	// critical paths.
	baselineConnected bool
}

// NewSPOFDetector creates a detector over a propagated network.
func NewSPOFDetector(net *graph.Network, propagated PropagationSet) *SPOFDetector {
	roots := net.TierNodes(3)
	return &SPOFDetector{
		net:               net,
		propagated:        propagated,
		tier3Roots:        roots,
		baselineConnected: net.ReachesTier(roots, 1, nil),
	}
}

// Detect evaluates every supplier without a backup against the three
// SPOF criteria and quantifies impact for each hit. Results are
// ordered by total impact descending, then value at risk, then ID.
func (d *SPOFDetector) Detect() []SPOF {
	var spofs []SPOF
	for _, node := range d.net.Nodes() {
		if node.HasBackup {
			// A backed-up supplier is never a SPOF regardless of risk.
			continue
		}
		reason, detail, ok := d.check(node.ID)
		if !ok {
			continue
		}

		descendants := d.net.Descendants(node.ID)
		valueAtRisk := node.ContractValue
		tierImpact := make(map[int]int)
		for _, desc := range descendants {
			descNode, _ := d.net.Node(desc)
			valueAtRisk += descNode.ContractValue
			tierImpact[descNode.Tier]++
		}
		multiplier := 0.0
		if node.ContractValue > 0 {
			multiplier = round2(valueAtRisk / node.ContractValue)
		}

		spofs = append(spofs, SPOF{
			SupplierID:       node.ID,
			Name:             node.Name,
			Tier:             node.Tier,
			Component:        node.Component,
			Country:          node.Country,
			Reason:           reason,
			Detail:           detail,
			PropagatedRisk:   d.propagated[node.ID],
			DirectImpact:     d.net.OutDegree(node.ID),
			TotalImpact:      len(descendants),
			TierImpact:       tierImpact,
			ValueAtRisk:      round2(valueAtRisk),
			ImpactMultiplier: multiplier,
		})
	}

	sort.Slice(spofs, func(i, j int) bool {
		if spofs[i].TotalImpact != spofs[j].TotalImpact {
			return spofs[i].TotalImpact > spofs[j].TotalImpact
		}
		if spofs[i].ValueAtRisk != spofs[j].ValueAtRisk {
			return spofs[i].ValueAtRisk > spofs[j].ValueAtRisk
		}
		return spofs[i].SupplierID < spofs[j].SupplierID
	})
	return spofs
}

// check applies the SPOF criteria in order and returns the first that
// fires.
func (d *SPOFDetector) check(id string) (SPOFReason, string, bool) {
	if prop := d.propagated[id]; prop > SPOFRiskThreshold {
		return ReasonHighRisk, fmt.Sprintf("propagated risk %.1f with no backup", prop), true
	}

	for _, succ := range d.net.Successors(id) {
		if d.net.InDegree(succ) == 1 {
			succNode, _ := d.net.Node(succ)
			return ReasonSoleSupplier, fmt.Sprintf("only supplier for %s (tier %d)", succ, succNode.Tier), true
		}
	}

	if d.disconnects(id) {
		return ReasonDisconnects, "removal severs every tier-3 to tier-1 path", true
	}
	return "", "", false
}

// disconnects reports whether removing the node leaves no tier-1 node
// reachable from any tier-3 root. Single multi-source BFS per
// candidate, O(V+E).
func (d *SPOFDetector) disconnects(id string) bool {
	if !d.baselineConnected {
		return false
	}
	return !d.net.ReachesTier(d.tier3Roots, 1, map[string]bool{id: true})
}

// CriticalSPOFs filters a detection result down to SPOFs whose
// propagated risk meets the threshold.
func CriticalSPOFs(spofs []SPOF, threshold float64) []SPOF {
	var critical []SPOF
	for _, s := range spofs {
		if s.PropagatedRisk >= threshold {
			critical = append(critical, s)
		}
	}
	return critical
}
