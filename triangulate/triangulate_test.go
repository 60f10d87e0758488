package triangulate_test

import (
	"testing"

	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/triangulate"
	"github.com/stretchr/testify/require"
)

const (
	vA graph.NodeID = iota
	vB
	vC
	vD
)

func chainGraph() (*graph.UndirectedGraph, map[graph.NodeID]int) {
	g := graph.NewUndirectedGraph()
	g.AddEdge(vA, vB)
	g.AddEdge(vB, vC)
	g.AddEdge(vC, vD)
	card := map[graph.NodeID]int{vA: 2, vB: 2, vC: 2, vD: 2}
	return g, card
}

func assertIsJunctionTree(t *testing.T, g *graph.UndirectedGraph, result *triangulate.Result) {
	t.Helper()

	// Every original edge must be covered by some clique.
	for _, e := range g.Edges() {
		covered := false
		for _, c := range result.JT.Cliques() {
			label := result.JT.Label(c)
			if label.Contains(e[0]) && label.Contains(e[1]) {
				covered = true
				break
			}
		}
		require.Truef(t, covered, "edge %v not covered by any clique", e)
	}

	// Running intersection: for every variable, the cliques containing it
	// form a connected subtree.
	for _, n := range g.Nodes() {
		containing := make(map[graph.CliqueID]bool)
		var start graph.CliqueID
		for _, c := range result.JT.Cliques() {
			if result.JT.Label(c).Contains(n) {
				if len(containing) == 0 {
					start = c
				}
				containing[c] = true
			}
		}
		require.NotEmpty(t, containing)

		reached := map[graph.CliqueID]bool{start: true}
		stack := []graph.CliqueID{start}
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range result.JT.Neighbors(c) {
				if containing[nb] && !reached[nb] {
					reached[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		require.Lenf(t, reached, len(containing), "cliques containing %d are not connected", n)
	}
}

func TestWeightedMinFillProducesValidJunctionTree(t *testing.T) {
	g, card := chainGraph()
	result, err := triangulate.WeightedMinFill{}.Triangulate(g, card)
	require.NoError(t, err)
	require.Len(t, result.Order, 4)
	assertIsJunctionTree(t, g, result)
}

func TestWeightedMinFillEmptyGraph(t *testing.T) {
	g := graph.NewUndirectedGraph()
	_, err := triangulate.WeightedMinFill{}.Triangulate(g, nil)
	require.ErrorIs(t, err, triangulate.ErrEmptyGraph)
}

func TestMinDegreeProducesValidJunctionTree(t *testing.T) {
	g, card := chainGraph()
	result, err := triangulate.MinDegree{}.Triangulate(g, card)
	require.NoError(t, err)
	assertIsJunctionTree(t, g, result)
}

func TestFixedOrderRejectsIncompleteOrder(t *testing.T) {
	g, card := chainGraph()
	_, err := triangulate.FixedOrder{Order: []graph.NodeID{vA, vB}}.Triangulate(g, card)
	require.ErrorIs(t, err, triangulate.ErrIncompleteOrder)
}

func TestFixedOrderMatchesRequestedElimination(t *testing.T) {
	g, card := chainGraph()
	order := []graph.NodeID{vD, vC, vB, vA}
	result, err := triangulate.FixedOrder{Order: order}.Triangulate(g, card)
	require.NoError(t, err)
	require.Equal(t, order, result.Order)
	assertIsJunctionTree(t, g, result)
}

func TestCliqueOfElimCoversEveryNode(t *testing.T) {
	g, card := chainGraph()
	result, err := triangulate.WeightedMinFill{}.Triangulate(g, card)
	require.NoError(t, err)
	for _, n := range g.Nodes() {
		_, ok := result.CliqueOfElim[n]
		require.Truef(t, ok, "node %d has no recorded elimination clique", n)
	}
}
