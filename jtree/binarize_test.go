package jtree

import (
	"testing"

	"github.com/JohnPierman/bnjt/graph"
	"github.com/stretchr/testify/require"
)

// buildStar builds a clique graph with one hub clique directly adjacent to
// n leaf cliques, each sharing the hub variable — the shape that triggers
// binarize's peeling loop once n exceeds the degree-3 cap.
func buildStar(n int) (*graph.CliqueGraph, graph.CliqueID) {
	jt := graph.NewCliqueGraph()
	hub := jt.AddClique(graph.NewNodeSet(0))
	for i := 0; i < n; i++ {
		leaf := jt.AddClique(graph.NewNodeSet(0, graph.NodeID(i+1)))
		jt.AddEdge(hub, leaf)
	}
	return jt, hub
}

// TestBinarizeTerminatesAndCapsDegreeAtThreeForAWideHub exercises a hub
// clique whose natural degree (5) is well above the degree-3 cap: every
// peel leaves the peeled clique with exactly two original neighbours plus
// the freshly inserted auxiliary, i.e. degree 3, so the loop must break at
// <= 3 rather than <= 2 or it never terminates.
func TestBinarizeTerminatesAndCapsDegreeAtThreeForAWideHub(t *testing.T) {
	jt, hub := buildStar(5)
	require.Len(t, jt.Neighbors(hub), 5)

	binarize(jt)

	for _, c := range jt.Cliques() {
		require.LessOrEqualf(t, len(jt.Neighbors(c)), 3, "clique %d exceeds the binary-join-tree degree cap", c)
	}
}

// TestBinarizeIsNoOpBelowTheDegreeCap confirms a clique already within the
// degree-3 cap is left untouched (no auxiliary cliques inserted).
func TestBinarizeIsNoOpBelowTheDegreeCap(t *testing.T) {
	jt, hub := buildStar(3)
	before := jt.Size()

	binarize(jt)

	require.Equal(t, before, jt.Size())
	require.Len(t, jt.Neighbors(hub), 3)
}
