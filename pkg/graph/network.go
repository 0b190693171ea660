// Package graph builds and validates the directed supplier dependency
// network. Edges point downstream: from a tier-n supplier to the tier
// n-1 supplier it feeds (3->2, 2->1).
package graph

import (
	"sort"

	"github.com/suppliershield/suppliershield/pkg/model"
)

// Edge is a directed dependency from Source to Target. Weight is the
// dependency-share fraction in [0,1]; it is ignored by composite
// scoring and consumed by impact calculations.
type Edge struct {
	Source string
	Target string
	Weight float64
}

// Network is an immutable in-memory supplier dependency graph. All
// accessors return data in a deterministic order (node IDs ascending)
// so downstream computations are independent of insertion order.
type Network struct {
	nodes map[string]*model.SupplierNode
	order []string // node IDs, sorted ascending

	edges []Edge
	out   map[string][]Edge // keyed by source
	in    map[string][]Edge // keyed by target

	tiers map[int][]string // tier -> node IDs, sorted ascending
}

func newNetwork() *Network {
	return &Network{
		nodes: make(map[string]*model.SupplierNode),
		out:   make(map[string][]Edge),
		in:    make(map[string][]Edge),
		tiers: make(map[int][]string),
	}
}

// freeze sorts all internal orderings. Called once by the builder;
// after freeze the network is read-only.
func (n *Network) freeze() {
	n.order = make([]string, 0, len(n.nodes))
	for id := range n.nodes {
		n.order = append(n.order, id)
	}
	sort.Strings(n.order)

	for _, id := range n.order {
		n.tiers[n.nodes[id].Tier] = append(n.tiers[n.nodes[id].Tier], id)
	}

	sort.Slice(n.edges, func(i, j int) bool {
		if n.edges[i].Source != n.edges[j].Source {
			return n.edges[i].Source < n.edges[j].Source
		}
		return n.edges[i].Target < n.edges[j].Target
	})
	for key := range n.out {
		adj := n.out[key]
		sort.Slice(adj, func(i, j int) bool { return adj[i].Target < adj[j].Target })
	}
	for key := range n.in {
		adj := n.in[key]
		sort.Slice(adj, func(i, j int) bool { return adj[i].Source < adj[j].Source })
	}
}

// Node returns the node with the given ID.
func (n *Network) Node(id string) (*model.SupplierNode, bool) {
	node, ok := n.nodes[id]
	return node, ok
}

// HasNode reports whether a supplier ID exists in the network.
func (n *Network) HasNode(id string) bool {
	_, ok := n.nodes[id]
	return ok
}

// NodeIDs returns all node IDs in ascending order.
func (n *Network) NodeIDs() []string {
	ids := make([]string, len(n.order))
	copy(ids, n.order)
	return ids
}

// Nodes returns all nodes ordered by ID.
func (n *Network) Nodes() []*model.SupplierNode {
	nodes := make([]*model.SupplierNode, 0, len(n.order))
	for _, id := range n.order {
		nodes = append(nodes, n.nodes[id])
	}
	return nodes
}

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int { return len(n.nodes) }

// EdgeCount returns the number of edges.
func (n *Network) EdgeCount() int { return len(n.edges) }

// Edges returns all edges ordered by (source, target).
func (n *Network) Edges() []Edge {
	edges := make([]Edge, len(n.edges))
	copy(edges, n.edges)
	return edges
}

// TierNodes returns the IDs of all nodes in the given tier, ascending.
func (n *Network) TierNodes(tier int) []string {
	ids := make([]string, len(n.tiers[tier]))
	copy(ids, n.tiers[tier])
	return ids
}

// Successors returns the IDs of nodes this supplier feeds, ascending.
func (n *Network) Successors(id string) []string {
	adj := n.out[id]
	ids := make([]string, 0, len(adj))
	for _, e := range adj {
		ids = append(ids, e.Target)
	}
	return ids
}

// Predecessors returns the IDs of nodes feeding this supplier, ascending.
func (n *Network) Predecessors(id string) []string {
	adj := n.in[id]
	ids := make([]string, 0, len(adj))
	for _, e := range adj {
		ids = append(ids, e.Source)
	}
	return ids
}

// OutDegree returns the number of outgoing edges.
func (n *Network) OutDegree(id string) int { return len(n.out[id]) }

// InDegree returns the number of incoming edges.
func (n *Network) InDegree(id string) int { return len(n.in[id]) }
