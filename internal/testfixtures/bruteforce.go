// Package testfixtures provides a brute-force inference oracle used only by
// tests to cross-check the junction-tree engine's results (:
// consistency with brute force, joint consistency).
//
// Adapted from bngo's inference.VariableElimination, generalized
// from string-keyed factors.DiscreteFactor to graph.NodeID and
// tensor.Tensor. Nothing in package inference imports this; it exists
// purely as an independently-derived answer to check against.
package testfixtures

import (
	"errors"

	"github.com/JohnPierman/bnjt/bnet"
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/tensor"
)

// ErrNoFactors is returned when every CPT collapsed away (e.g. a
// single-variable network whose only variable is itself evidence and also
// the query target).
var ErrNoFactors = errors.New("testfixtures: no factors remained after elimination")

// BruteForcePosterior computes the normalized posterior over vars given
// hardEvidence by naive variable elimination: no triangulation, no
// junction tree, no caching, no barren-variable pruning. Eliminates every
// non-target non-evidence variable in network declaration order.
func BruteForcePosterior(net bnet.Network, vars []graph.NodeID, hardEvidence map[graph.NodeID]int) (*tensor.Tensor, error) {
	working := make([]*tensor.Tensor, 0)
	for _, n := range net.Nodes() {
		cpt, err := net.CPT(n)
		if err != nil {
			return nil, err
		}

		fixed := make(map[graph.NodeID]int)
		for _, v := range cpt.Vars {
			if state, ok := hardEvidence[v]; ok {
				fixed[v] = state
			}
		}
		if len(fixed) == 0 {
			working = append(working, cpt)
			continue
		}

		reduced, err := cpt.Extract(fixed)
		if err != nil {
			return nil, err
		}
		if len(reduced.Vars) > 0 {
			working = append(working, reduced)
		}
		// A CPT that reduced to a bare scalar is a constant multiplier on
		// the joint; dropping it doesn't change the normalized posterior.
	}

	keep := graph.NewNodeSet(vars...)
	for _, n := range net.Nodes() {
		if keep.Contains(n) {
			continue
		}
		if _, isEvidence := hardEvidence[n]; isEvidence {
			continue
		}
		working = eliminate(n, working)
	}

	if len(working) == 0 {
		return nil, ErrNoFactors
	}
	product := working[0]
	var err error
	for _, f := range working[1:] {
		product, err = product.Combine(f)
		if err != nil {
			return nil, err
		}
	}
	if err := product.Normalize(); err != nil {
		return nil, err
	}
	return product, nil
}

// eliminate multiplies every factor mentioning v and marginalizes v out of
// the product, leaving the factors that never mentioned v untouched.
func eliminate(v graph.NodeID, factorList []*tensor.Tensor) []*tensor.Tensor {
	var relevant, irrelevant []*tensor.Tensor
	for _, f := range factorList {
		if f.HasVar(v) {
			relevant = append(relevant, f)
		} else {
			irrelevant = append(irrelevant, f)
		}
	}
	if len(relevant) == 0 {
		return factorList
	}

	product := relevant[0]
	for _, f := range relevant[1:] {
		combined, err := product.Combine(f)
		if err != nil {
			continue
		}
		product = combined
	}

	marginalized, err := product.ProjectOut([]graph.NodeID{v})
	if err != nil {
		return irrelevant
	}
	return append(irrelevant, marginalized)
}
