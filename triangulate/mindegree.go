package triangulate

import "github.com/JohnPierman/bnjt/graph"

// MinDegree eliminates, at each step, the node with the fewest remaining
// neighbours, breaking ties by ascending NodeID. Cheaper to compute than
// WeightedMinFill but generally yields wider cliques; useful as a fast
// fallback on large graphs.
type MinDegree struct{}

// Triangulate implements Strategy.
func (MinDegree) Triangulate(g *graph.UndirectedGraph, card map[graph.NodeID]int) (*Result, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil, ErrEmptyGraph
	}

	working := g.Copy()
	order := make([]graph.NodeID, 0, len(nodes))
	remaining := graph.NewNodeSet(nodes...)

	for len(remaining) > 0 {
		best, bestDegree := graph.NodeID(0), -1
		first := true
		for _, n := range remaining.Slice() {
			degree := working.Degree(n)
			if first || degree < bestDegree || (degree == bestDegree && n < best) {
				best, bestDegree, first = n, degree, false
			}
		}
		working.Eliminate(best)
		remaining.Remove(best)
		order = append(order, best)
	}

	return buildFromOrder(g, order)
}
