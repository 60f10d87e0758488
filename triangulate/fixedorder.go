package triangulate

import (
	"github.com/JohnPierman/bnjt/graph"
	"github.com/pkg/errors"
)

// ErrIncompleteOrder is returned when a FixedOrder's Order does not name
// exactly the graph's nodes.
var ErrIncompleteOrder = errors.New("triangulate: fixed order does not match graph nodes")

// FixedOrder triangulates using a caller-supplied elimination order,
// bypassing the heuristic search entirely. Useful for tests that need a
// predictable junction tree, or for callers replaying an order computed
// offline.
type FixedOrder struct {
	Order []graph.NodeID
}

// Triangulate implements Strategy.
func (f FixedOrder) Triangulate(g *graph.UndirectedGraph, card map[graph.NodeID]int) (*Result, error) {
	nodes := graph.NewNodeSet(g.Nodes()...)
	if len(f.Order) != len(nodes) {
		return nil, ErrIncompleteOrder
	}
	seen := make(graph.NodeSet, len(f.Order))
	for _, n := range f.Order {
		if !nodes.Contains(n) || seen.Contains(n) {
			return nil, ErrIncompleteOrder
		}
		seen.Add(n)
	}
	return buildFromOrder(g, f.Order)
}
