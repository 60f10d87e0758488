package jtree

import (
	"github.com/JohnPierman/bnjt/bnet"
	"github.com/JohnPierman/bnjt/evidence"
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/target"
	"github.com/JohnPierman/bnjt/tensor"
	"github.com/JohnPierman/bnjt/triangulate"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Compiler builds a JunctionTree from a network, its current evidence, and
// its registered targets.
//
// Grounded directly on aGrUM ShaferShenoyInference_tpl.h::__createNewJT:
// barren-variable pruning, moralisation, joint-target marrying edges,
// hard-evidence removal, triangulation, node/joint-target-to-clique
// assignment, clique potential construction, and per-component roots via
// __computeJoinTreeRoots.
type Compiler struct {
	Strategy triangulate.Strategy

	// PruneBarren restricts compilation to the ancestral set of the
	// current targets/evidence (default true). Disabling it compiles over
	// every network variable regardless of what's registered.
	PruneBarren bool

	// BinaryJoinTree reduces every clique to at most three neighbours via
	// binarize (default true).
	BinaryJoinTree bool
}

// NewCompiler creates a Compiler using strategy, or WeightedMinFill if nil,
// with barren-node pruning and binary-join-tree conversion both enabled by
// default.
func NewCompiler(strategy triangulate.Strategy) *Compiler {
	if strategy == nil {
		strategy = triangulate.WeightedMinFill{}
	}
	return &Compiler{Strategy: strategy, PruneBarren: true, BinaryJoinTree: true}
}

// Compile builds a fresh JunctionTree: ancestral pruning, moralisation,
// joint-target marrying edges, hard-evidence removal, triangulation,
// optional binarisation, clique/Φ(C) construction, and root selection.
func (c *Compiler) Compile(net bnet.Network, ev *evidence.Store, targets *target.Registry) (*JunctionTree, error) {
	view := graph.NewDAGView(net)

	hardEvidence := make(map[graph.NodeID]int)
	for _, n := range ev.HardNodes() {
		entry, _ := ev.Get(n)
		hardEvidence[n] = entry.State
	}

	var relevant graph.NodeSet
	if c.PruneBarren {
		seeds := make([]graph.NodeID, 0)
		seeds = append(seeds, targets.Singles()...)
		for _, joint := range targets.Joints() {
			seeds = append(seeds, joint.Slice()...)
		}
		for n := range hardEvidence {
			seeds = append(seeds, n)
		}
		for _, n := range ev.Nodes() {
			seeds = append(seeds, n)
		}
		if len(seeds) == 0 {
			seeds = net.Nodes()
		}
		relevant = view.AncestralSet(seeds)
	} else {
		relevant = graph.NewNodeSet(net.Nodes()...)
	}

	moral := view.MoralGraphOver(relevant)

	for _, joint := range targets.Joints() {
		vars := joint.Slice()
		for i := 0; i < len(vars); i++ {
			for j := i + 1; j < len(vars); j++ {
				moral.AddEdge(vars[i], vars[j])
			}
		}
	}

	for n := range hardEvidence {
		moral.RemoveNode(n)
	}

	card := make(map[graph.NodeID]int)
	for _, n := range moral.Nodes() {
		v, err := net.Variable(n)
		if err != nil {
			return nil, err
		}
		card[n] = v.Card
	}

	if moral.Size() == 0 {
		return nil, ErrNoRelevantVariables
	}

	result, err := c.Strategy.Triangulate(moral, card)
	if err != nil {
		return nil, errors.Wrap(err, "jtree: triangulation failed")
	}
	if c.BinaryJoinTree {
		binarize(result.JT)
	}

	jt := &JunctionTree{
		JT:             result.JT,
		NodeToClique:   make(map[graph.NodeID]graph.CliqueID),
		Phi:            make(map[graph.CliqueID]*tensor.Tensor),
		Messages:       make(map[Arc]*tensor.Tensor),
		EvidenceScalar: 1,
		HardEvidence:   hardEvidence,
		Relevant:       relevant,
		Generation:     uuid.New(),
	}

	for _, cliqueID := range result.JT.Cliques() {
		label := result.JT.Label(cliqueID)
		jt.Phi[cliqueID] = tensor.Uniform(label.Slice(), subMap(card, label))
	}

	for _, n := range moral.Nodes() {
		jt.NodeToClique[n] = result.CliqueOfElim[n]
	}

	if err := c.assignFactors(net, ev, relevant, hardEvidence, jt); err != nil {
		return nil, err
	}

	for _, joint := range targets.Joints() {
		if cl, ok := result.JT.CliqueContaining(joint); ok {
			jt.jointTargets = append(jt.jointTargets, jointTargetAssignment{Vars: joint.Copy(), Clique: cl})
		}
	}

	jt.Roots = computeRoots(result.JT, card)

	return jt, nil
}

// assignFactors reduces every relevant variable's CPT by the current hard
// evidence and combines it into its assigned clique's Φ(C), folds any
// hard-evidence node's own sliced CPT in as well (over its surviving
// parents, or as a bare scalar if none survive), and multiplies in any
// soft-evidence likelihood registered for a relevant variable.
func (c *Compiler) assignFactors(net bnet.Network, ev *evidence.Store, relevant graph.NodeSet, hardEvidence map[graph.NodeID]int, jt *JunctionTree) error {
	for n := range relevant {
		targetClique, ok, err := c.placeNodeFactor(net, hardEvidence, jt, n)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := c.foldSoftEvidence(ev, jt, n, targetClique); err != nil {
			return err
		}
	}
	return nil
}

// placeNodeFactor reduces n's CPT by hard evidence and combines the result
// into the clique it belongs in, returning that clique so the caller can
// fold in any further evidence for n. Returns ok=false if the CPT reduced
// to a bare scalar (folded into jt.EvidenceScalar instead).
func (c *Compiler) placeNodeFactor(net bnet.Network, hardEvidence map[graph.NodeID]int, jt *JunctionTree, n graph.NodeID) (graph.CliqueID, bool, error) {
	cpt, err := net.CPT(n)
	if err != nil {
		return 0, false, err
	}

	reduced, scalarOut, err := reduceByEvidence(cpt, hardEvidence)
	if err != nil {
		return 0, false, err
	}
	if reduced == nil {
		jt.EvidenceScalar *= scalarOut
		return 0, false, nil
	}

	var targetClique graph.CliqueID
	var ok bool
	if _, isEvidence := hardEvidence[n]; isEvidence {
		targetClique, ok = jt.JT.CliqueContaining(graph.NewNodeSet(reduced.Vars...))
	} else {
		targetClique, ok = jt.NodeToClique[n]
	}
	if !ok {
		return 0, false, errors.Wrapf(ErrUnassignedFactor, "variable %d", n)
	}

	combined, err := jt.Phi[targetClique].Combine(reduced)
	if err != nil {
		return 0, false, err
	}
	jt.Phi[targetClique] = combined
	return targetClique, true, nil
}

// foldSoftEvidence multiplies n's soft-evidence likelihood (if any) into
// the clique its factor was placed in.
func (c *Compiler) foldSoftEvidence(ev *evidence.Store, jt *JunctionTree, n graph.NodeID, cl graph.CliqueID) error {
	entry, ok := ev.Get(n)
	if !ok || entry.Kind != evidence.Soft {
		return nil
	}
	combined, err := jt.Phi[cl].Combine(entry.Likelihood)
	if err != nil {
		return err
	}
	jt.Phi[cl] = combined
	return nil
}

// reduceByEvidence fixes every variable of cpt that has hard evidence,
// returning either the remaining factor, or (nil, scalar) if every
// variable of cpt was evidence.
func reduceByEvidence(cpt *tensor.Tensor, hardEvidence map[graph.NodeID]int) (*tensor.Tensor, float64, error) {
	fixed := make(map[graph.NodeID]int)
	for _, v := range cpt.Vars {
		if state, ok := hardEvidence[v]; ok {
			fixed[v] = state
		}
	}
	if len(fixed) == 0 {
		return cpt, 0, nil
	}

	reduced, err := cpt.Extract(fixed)
	if err != nil {
		return nil, 0, err
	}
	if len(reduced.Vars) == 0 {
		return nil, reduced.Values[0], nil
	}
	return reduced, 0, nil
}

func subMap(card map[graph.NodeID]int, vars graph.NodeSet) map[graph.NodeID]int {
	out := make(map[graph.NodeID]int, len(vars))
	for v := range vars {
		out[v] = card[v]
	}
	return out
}

// computeRoots picks one root per connected component, the clique of
// smallest weight (product of the cardinalities in its label), tie-broken
// by ascending CliqueID — mirroring aGrUM's __computeJoinTreeRoots.
func computeRoots(jt *graph.CliqueGraph, card map[graph.NodeID]int) []graph.CliqueID {
	var roots []graph.CliqueID
	for _, component := range jt.ConnectedComponents() {
		best := component[0]
		bestWeight := cliqueWeight(jt.Label(best), card)
		for _, c := range component[1:] {
			w := cliqueWeight(jt.Label(c), card)
			if w < bestWeight || (w == bestWeight && c < best) {
				best, bestWeight = c, w
			}
		}
		roots = append(roots, best)
	}
	return roots
}

func cliqueWeight(label graph.NodeSet, card map[graph.NodeID]int) int {
	weight := 1
	for v := range label {
		weight *= card[v]
	}
	return weight
}
