// Package jtree compiles a Bayesian network, its evidence, and its
// registered targets into a junction tree with per-clique potentials ready
// for Shafer-Shenoy message passing — component F of the engine.
package jtree

import (
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/tensor"
	"github.com/google/uuid"
)

// Arc identifies a directed edge of the junction tree a message flows
// along.
type Arc struct {
	From, To graph.CliqueID
}

// jointTargetAssignment records which clique a registered joint target's
// full variable set was matched to at compile time.
type jointTargetAssignment struct {
	Vars   graph.NodeSet
	Clique graph.CliqueID
}

// JunctionTree is a fully compiled, ready-to-query Shafer-Shenoy structure:
// a clique graph, each clique's local potential Φ(C) (the product of the
// CPTs/evidence factors assigned to it), and the bookkeeping needed to
// find where a variable or joint target lives.
type JunctionTree struct {
	JT           *graph.CliqueGraph
	NodeToClique map[graph.NodeID]graph.CliqueID
	jointTargets []jointTargetAssignment
	Roots        []graph.CliqueID
	Phi          map[graph.CliqueID]*tensor.Tensor

	// Relevant is the ancestral set Compile moralised over (every variable
	// that ended up in this tree, evidence nodes included). Update walks
	// this to rebuild a single clique's Φ(C) from scratch without needing
	// to divide a stale factor back out.
	Relevant graph.NodeSet

	// Messages caches a produced separator message per arc; entries are
	// removed (not zero-valued) when propagate.InvalidateFrom sweeps them,
	// so presence in the map is itself the "computed" flag — no
	// raw-pointer aliasing between a cleared and a stale message.
	Messages map[Arc]*tensor.Tensor

	// EvidenceScalar accumulates the contribution of hard-evidence CPTs
	// that reduced to a bare scalar (no remaining non-evidence parents),
	// e.g. an observed root variable's own prior. It multiplies directly
	// into EvidenceProbability and nowhere else.
	EvidenceScalar float64

	// HardEvidence is the node->state assignment this tree was compiled
	// against; a later structural evidence change invalidates the tree and
	// requires Compile to run again.
	HardEvidence map[graph.NodeID]int

	Generation uuid.UUID
}

// CliqueOf returns the clique a single variable's factor lives in.
func (jt *JunctionTree) CliqueOf(v graph.NodeID) (graph.CliqueID, bool) {
	c, ok := jt.NodeToClique[v]
	return c, ok
}

// CliqueOfJoint returns the clique assigned to a registered joint target
// at compile time, matching by the exact variable set.
func (jt *JunctionTree) CliqueOfJoint(vars graph.NodeSet) (graph.CliqueID, bool) {
	for _, a := range jt.jointTargets {
		if a.Vars.Equal(vars) {
			return a.Clique, true
		}
	}
	return 0, false
}

// RootOf returns the root of c's connected component.
func (jt *JunctionTree) RootOf(c graph.CliqueID) graph.CliqueID {
	for _, root := range jt.Roots {
		if componentContains(jt.JT, root, c) {
			return root
		}
	}
	return c
}

func componentContains(g *graph.CliqueGraph, root, target graph.CliqueID) bool {
	visited := map[graph.CliqueID]bool{root: true}
	stack := []graph.CliqueID{root}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c == target {
			return true
		}
		for _, n := range g.Neighbors(c) {
			if !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
	return false
}

// ClearMessages drops every cached message, forcing the next Collect to
// recompute the tree from scratch. Compile does not call it: each tree it
// builds starts with an empty message map.
func (jt *JunctionTree) ClearMessages() {
	jt.Messages = make(map[Arc]*tensor.Tensor)
}
