// Package triangulate computes an elimination ordering and the resulting
// junction tree for a moral graph — component C of the engine.
package triangulate

import (
	"github.com/JohnPierman/bnjt/graph"
	"github.com/pkg/errors"
)

// ErrEmptyGraph is returned when Triangulate is called on a graph with no
// nodes.
var ErrEmptyGraph = errors.New("triangulate: graph has no nodes")

// Result is the outcome of triangulating a moral graph: the elimination
// order used, the fill-in edges added along the way, the junction tree
// built from the resulting chordal graph, and which clique was created at
// each node's elimination step.
type Result struct {
	Order        []graph.NodeID
	FillIns      [][2]graph.NodeID
	JT           *graph.CliqueGraph
	CliqueOfElim map[graph.NodeID]graph.CliqueID
}

// Strategy picks an elimination order for a moral graph. Different
// strategies trade triangulation quality for running time; WeightedMinFill
// is the default used by jtree.Compiler.
type Strategy interface {
	Triangulate(g *graph.UndirectedGraph, card map[graph.NodeID]int) (*Result, error)
}

// buildFromOrder runs the shared second half of triangulation: eliminate
// nodes in the given order on a working copy of g, recording each step's
// clique and fill-ins, then assembles those cliques into a junction tree.
//
// Grounded on aGrUM defaultTriangulation.cpp's two-phase structure
// (elimination sequence, then createdJunctionTreeClique/JT assembly).
func buildFromOrder(g *graph.UndirectedGraph, order []graph.NodeID) (*Result, error) {
	working := g.Copy()

	type step struct {
		node   graph.NodeID
		clique graph.NodeSet
	}
	steps := make([]step, 0, len(order))
	var allFillIns [][2]graph.NodeID

	for _, n := range order {
		clique := working.CliqueAround(n)
		fillIns := working.Eliminate(n)
		steps = append(steps, step{node: n, clique: clique})
		allFillIns = append(allFillIns, fillIns...)
	}

	jt := graph.NewCliqueGraph()
	cliqueOfElim := make(map[graph.NodeID]graph.CliqueID, len(steps))
	cliqueIDs := make([]graph.CliqueID, len(steps))
	for i, s := range steps {
		id := jt.AddClique(s.clique)
		cliqueIDs[i] = id
		cliqueOfElim[s.node] = id
	}

	// Attach clique i to the clique of whichever of its neighbours is
	// eliminated earliest afterwards: that neighbour's own elimination
	// clique is guaranteed to contain every variable clique i shares with
	// it, which is what keeps the running-intersection property.
	position := make(map[graph.NodeID]int, len(order))
	for i, n := range order {
		position[n] = i
	}
	for i, s := range steps {
		best := -1
		for neighbor := range s.clique {
			if neighbor == s.node {
				continue
			}
			j := position[neighbor]
			if j <= i {
				continue
			}
			if best == -1 || j < best {
				best = j
			}
		}
		if best != -1 {
			jt.AddEdge(cliqueIDs[i], cliqueIDs[best])
		}
	}

	pruneSubsumedCliques(jt, cliqueOfElim)

	return &Result{
		Order:        append([]graph.NodeID(nil), order...),
		FillIns:      allFillIns,
		JT:           jt,
		CliqueOfElim: cliqueOfElim,
	}, nil
}

// pruneSubsumedCliques removes cliques whose label is a subset of a
// neighbouring clique's label, rewiring their edges onto the superset
// clique and repointing cliqueOfElim entries that named the removed
// clique. The elimination-order construction above can produce cliques
// that are not maximal; merging them keeps clique storage and
// message-passing from doing redundant work over non-maximal cliques.
func pruneSubsumedCliques(jt *graph.CliqueGraph, cliqueOfElim map[graph.NodeID]graph.CliqueID) {
	changed := true
	for changed {
		changed = false
		for _, c := range jt.Cliques() {
			for _, neighbor := range jt.Neighbors(c) {
				if jt.Label(c).Subset(jt.Label(neighbor)) {
					jt.MergeInto(c, neighbor)
					for node, id := range cliqueOfElim {
						if id == c {
							cliqueOfElim[node] = neighbor
						}
					}
					changed = true
					break
				}
			}
			if changed {
				break
			}
		}
	}
}
