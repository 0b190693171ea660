package graph

import "sort"

// Descendants returns every node reachable from id via outgoing edges,
// excluding id itself. The result is sorted ascending. Runs a single
// forward BFS in O(V+E).
func (n *Network) Descendants(id string) []string {
	return n.reach(id, n.Successors)
}

// Ancestors returns every node that can reach id via outgoing edges,
// excluding id itself. The result is sorted ascending.
func (n *Network) Ancestors(id string) []string {
	return n.reach(id, n.Predecessors)
}

func (n *Network) reach(start string, next func(string) []string) []string {
	if !n.HasNode(start) {
		return nil
	}
	visited := map[string]bool{start: true}
	queue := []string{start}
	var result []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbor := range next(current) {
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			result = append(result, neighbor)
			queue = append(queue, neighbor)
		}
	}
	sort.Strings(result)
	return result
}

// ForwardClosure returns the union of the given seed nodes and all of
// their descendants, sorted ascending. Unknown seeds are skipped.
func (n *Network) ForwardClosure(seeds []string) []string {
	visited := make(map[string]bool)
	var queue []string
	for _, id := range seeds {
		if n.HasNode(id) && !visited[id] {
			visited[id] = true
			queue = append(queue, id)
		}
	}
	result := make([]string, 0, len(queue))
	result = append(result, queue...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, succ := range n.Successors(current) {
			if visited[succ] {
				continue
			}
			visited[succ] = true
			result = append(result, succ)
			queue = append(queue, succ)
		}
	}
	sort.Strings(result)
	return result
}

// ReachesTier reports whether any node in from can reach a node of the
// given tier via outgoing edges, treating every node in excluded as
// removed from the graph. Multi-source BFS, O(V+E).
func (n *Network) ReachesTier(from []string, tier int, excluded map[string]bool) bool {
	visited := make(map[string]bool)
	var queue []string
	for _, id := range from {
		if !n.HasNode(id) || excluded[id] || visited[id] {
			continue
		}
		if node, _ := n.Node(id); node.Tier == tier {
			return true
		}
		visited[id] = true
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, succ := range n.Successors(current) {
			if visited[succ] || excluded[succ] {
				continue
			}
			if node, _ := n.Node(succ); node.Tier == tier {
				return true
			}
			visited[succ] = true
			queue = append(queue, succ)
		}
	}
	return false
}

// WeakComponents returns the weakly connected components of the graph
// (edge direction ignored). Components are sorted by their smallest
// member; members are sorted ascending.
func (n *Network) WeakComponents() [][]string {
	visited := make(map[string]bool)
	var components [][]string
	for _, id := range n.order {
		if visited[id] {
			continue
		}
		var component []string
		queue := []string{id}
		visited[id] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)
			neighbors := append(n.Successors(current), n.Predecessors(current)...)
			for _, neighbor := range neighbors {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
		sort.Strings(component)
		components = append(components, component)
	}
	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}
