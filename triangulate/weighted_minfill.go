package triangulate

import "github.com/JohnPierman/bnjt/graph"

// WeightedMinFill is the default triangulation strategy: at each step it
// eliminates the node whose elimination would create the smallest
// weighted clique (product of variable cardinalities), breaking ties by
// fewest fill-in edges and finally by ascending NodeID for determinism.
type WeightedMinFill struct{}

// Triangulate implements Strategy.
func (WeightedMinFill) Triangulate(g *graph.UndirectedGraph, card map[graph.NodeID]int) (*Result, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil, ErrEmptyGraph
	}

	working := g.Copy()
	order := make([]graph.NodeID, 0, len(nodes))
	remaining := graph.NewNodeSet(nodes...)

	for len(remaining) > 0 {
		best, bestFill, bestWeight := graph.NodeID(0), -1, -1
		first := true
		for _, n := range remaining.Slice() {
			fillCount := countFillIns(working, n)
			weight := cliqueWeight(working, n, card)
			if first || better(fillCount, weight, n, bestFill, bestWeight, best) {
				best, bestFill, bestWeight, first = n, fillCount, weight, false
			}
		}
		working.Eliminate(best)
		remaining.Remove(best)
		order = append(order, best)
	}

	return buildFromOrder(g, order)
}

func countFillIns(g *graph.UndirectedGraph, n graph.NodeID) int {
	neighbors := g.Neighbors(n)
	count := 0
	for i := 0; i < len(neighbors); i++ {
		for j := i + 1; j < len(neighbors); j++ {
			if !g.HasEdge(neighbors[i], neighbors[j]) {
				count++
			}
		}
	}
	return count
}

func cliqueWeight(g *graph.UndirectedGraph, n graph.NodeID, card map[graph.NodeID]int) int {
	weight := card[n]
	for _, neighbor := range g.Neighbors(n) {
		weight *= card[neighbor]
	}
	return weight
}

// better reports whether candidate (fill, weight, id) improves on the
// current best (bestFill, bestWeight, bestID) under lexicographic order:
// weight first, then fill-in count, then node id.
func better(fill, weight int, id graph.NodeID, bestFill, bestWeight int, bestID graph.NodeID) bool {
	if weight != bestWeight {
		return weight < bestWeight
	}
	if fill != bestFill {
		return fill < bestFill
	}
	return id < bestID
}
