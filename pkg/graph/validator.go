package graph

import (
	"fmt"
	"strings"
)

// ViolationKind identifies a structural invariant check.
type ViolationKind string

const (
	// ViolationCycle: the edge set contains a directed cycle.
	ViolationCycle ViolationKind = "cycle"
	// ViolationTierFlow: an edge does not flow tier 3->2 or 2->1.
	ViolationTierFlow ViolationKind = "tier_flow"
	// ViolationSelfLoop: a supplier depends on itself.
	ViolationSelfLoop ViolationKind = "self_loop"
	// ViolationOrphan: a node or component is disconnected from the
	// main network. Informational only, never fatal.
	ViolationOrphan ViolationKind = "orphan"
)

// Violation is a single structural problem found during validation.
type Violation struct {
	Kind    ViolationKind
	Message string
	Nodes   []string // nodes involved, in path or ID order
}

// Fatal reports whether this violation aborts the pipeline before
// scoring. Orphans are reported but permitted.
func (v Violation) Fatal() bool {
	return v.Kind != ViolationOrphan
}

// HasFatal reports whether any violation in the list is fatal.
func HasFatal(violations []Violation) bool {
	for _, v := range violations {
		if v.Fatal() {
			return true
		}
	}
	return false
}

// StructuralError aggregates the fatal violations that aborted a
// pipeline run.
type StructuralError struct {
	Violations []Violation
}

func (e *StructuralError) Error() string {
	kinds := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Fatal() {
			kinds = append(kinds, string(v.Kind))
		}
	}
	return fmt.Sprintf("network failed structural validation: %s", strings.Join(kinds, ", "))
}

// Validate runs every structural check and returns all violations in
// one pass so the caller can report every problem at once. Checks are
// independent: a tier-flow violation does not mask a cycle.
func Validate(net *Network) []Violation {
	var violations []Violation
	violations = append(violations, checkSelfLoops(net)...)
	violations = append(violations, checkTierFlow(net)...)
	violations = append(violations, checkCycles(net)...)
	violations = append(violations, checkConnectivity(net)...)
	return violations
}

func checkSelfLoops(net *Network) []Violation {
	var violations []Violation
	for _, edge := range net.edges {
		if edge.Source == edge.Target {
			violations = append(violations, Violation{
				Kind:    ViolationSelfLoop,
				Message: fmt.Sprintf("supplier %s depends on itself", edge.Source),
				Nodes:   []string{edge.Source},
			})
		}
	}
	return violations
}

func checkTierFlow(net *Network) []Violation {
	var violations []Violation
	for _, edge := range net.edges {
		if edge.Source == edge.Target {
			continue // reported by the self-loop check
		}
		src, _ := net.Node(edge.Source)
		dst, _ := net.Node(edge.Target)
		if src.Tier != dst.Tier+1 {
			violations = append(violations, Violation{
				Kind: ViolationTierFlow,
				Message: fmt.Sprintf("edge %s (tier %d) -> %s (tier %d) must flow from tier n to tier n-1",
					edge.Source, src.Tier, edge.Target, dst.Tier),
				Nodes: []string{edge.Source, edge.Target},
			})
		}
	}
	return violations
}

// checkCycles detects directed cycles with a three-color DFS: white =
// unvisited, gray = on the current stack, black = done. A gray node
// reached again closes a back edge.
func checkCycles(net *Network) []Violation {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, net.NodeCount())
	onStack := make([]string, 0)
	var violations []Violation

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		onStack = append(onStack, id)
		for _, succ := range net.Successors(id) {
			switch color[succ] {
			case white:
				visit(succ)
			case gray:
				if succ == id {
					continue // self-loop, reported separately
				}
				// Cut the stack at the first occurrence of succ to
				// recover the cycle path.
				start := 0
				for i, sid := range onStack {
					if sid == succ {
						start = i
						break
					}
				}
				cycle := make([]string, len(onStack)-start)
				copy(cycle, onStack[start:])
				violations = append(violations, Violation{
					Kind:    ViolationCycle,
					Message: fmt.Sprintf("circular dependency: %s -> %s", strings.Join(cycle, " -> "), succ),
					Nodes:   cycle,
				})
			}
		}
		onStack = onStack[:len(onStack)-1]
		color[id] = black
	}

	for _, id := range net.order {
		if color[id] == white {
			visit(id)
		}
	}
	return violations
}

// checkConnectivity reports disconnected nodes. Orphans are permitted;
// the violations it emits are informational.
func checkConnectivity(net *Network) []Violation {
	components := net.WeakComponents()
	if len(components) <= 1 {
		return nil
	}
	// The largest component is considered the main network; everything
	// else is reported.
	mainIdx := 0
	for i, c := range components {
		if len(c) > len(components[mainIdx]) {
			mainIdx = i
		}
	}
	var violations []Violation
	for i, component := range components {
		if i == mainIdx {
			continue
		}
		msg := fmt.Sprintf("component of %d supplier(s) disconnected from main network", len(component))
		if len(component) == 1 {
			msg = fmt.Sprintf("supplier %s has no dependencies in either direction", component[0])
		}
		violations = append(violations, Violation{
			Kind:    ViolationOrphan,
			Message: msg,
			Nodes:   component,
		})
	}
	return violations
}
