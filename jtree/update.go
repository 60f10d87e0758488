package jtree

import (
	"github.com/JohnPierman/bnjt/bnet"
	"github.com/JohnPierman/bnjt/evidence"
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/tensor"
)

// Update recomputes the Φ(C) of every clique touched by a non-structural
// evidence change — a soft-evidence likelihood added, changed, or erased
// without a hard/soft kind flip — and reports which cliques changed, so the
// caller (component H) knows which outgoing messages to invalidate.
//
// Update must only be called for changes that left ev.StructureDirty()
// false: a hard-evidence add/erase or a hard/soft kind flip changes the
// tree's very shape and requires Compiler.Compile instead.
//
// Grounded on aGrUM's _updateOutdatedBNPotentials: rather than dividing a
// stale factor back out of a combined Φ(C) (fragile near zero), the
// affected clique's potential is rebuilt from a uniform base by replaying
// every variable assigned to it.
func Update(net bnet.Network, ev *evidence.Store, jt *JunctionTree, changes map[graph.NodeID]evidence.ChangeClass) ([]graph.CliqueID, error) {
	touched := make(map[graph.CliqueID]bool)
	for node := range changes {
		cl, _, ok, err := resolveFactor(net, jt, node)
		if err != nil {
			return nil, err
		}
		if ok {
			touched[cl] = true
		}
	}

	result := make([]graph.CliqueID, 0, len(touched))
	for cl := range touched {
		if err := recomputeClique(net, ev, jt, cl); err != nil {
			return nil, err
		}
		result = append(result, cl)
	}
	return result, nil
}

// resolveFactor reduces n's CPT by the tree's hard evidence and reports
// which clique it belongs in, mirroring Compiler.placeNodeFactor's
// targeting rule without mutating jt. ok is false when the CPT reduced to
// a bare scalar, or when no clique of jt holds n's factor (n is not part
// of the compiled tree).
func resolveFactor(net bnet.Network, jt *JunctionTree, n graph.NodeID) (graph.CliqueID, *tensor.Tensor, bool, error) {
	cpt, err := net.CPT(n)
	if err != nil {
		return 0, nil, false, err
	}
	reduced, _, err := reduceByEvidence(cpt, jt.HardEvidence)
	if err != nil {
		return 0, nil, false, err
	}
	if reduced == nil {
		return 0, nil, false, nil
	}

	var cl graph.CliqueID
	var ok bool
	if _, isEvidence := jt.HardEvidence[n]; isEvidence {
		cl, ok = jt.JT.CliqueContaining(graph.NewNodeSet(reduced.Vars...))
	} else {
		cl, ok = jt.NodeToClique[n]
	}
	if !ok {
		return 0, nil, false, nil
	}
	return cl, reduced, true, nil
}

// recomputeClique rebuilds cl's Φ(C) from a uniform base, replaying every
// relevant variable's (evidence-reduced CPT × current soft likelihood)
// that belongs there.
func recomputeClique(net bnet.Network, ev *evidence.Store, jt *JunctionTree, cl graph.CliqueID) error {
	label := jt.JT.Label(cl)
	card := make(map[graph.NodeID]int, len(label))
	for v := range label {
		variable, err := net.Variable(v)
		if err != nil {
			return err
		}
		card[v] = variable.Card
	}
	phi := tensor.Uniform(label.Slice(), card)

	for n := range jt.Relevant {
		target, reduced, ok, err := resolveFactor(net, jt, n)
		if err != nil {
			return err
		}
		if !ok || target != cl {
			continue
		}

		combined, err := phi.Combine(reduced)
		if err != nil {
			return err
		}
		phi = combined

		if entry, ok := ev.Get(n); ok && entry.Kind == evidence.Soft {
			combined, err := phi.Combine(entry.Likelihood)
			if err != nil {
				return err
			}
			phi = combined
		}
	}

	jt.Phi[cl] = phi
	return nil
}
