package graph

import (
	"github.com/pkg/errors"
)

// ErrCycle is returned by TopologicalSort when the source is not acyclic.
// A DAGView never mutates its source; bnet.DiscreteNetwork.AddEdge relies
// on this error to reject an edge that would close a cycle.
var ErrCycle = errors.New("graph: cycle detected")

// DAGSource is the minimal read-only shape a directed-acyclic structure
// must expose for DAGView to compute moralisation, ancestry, and
// topological order over it. bnet.Network satisfies this directly, so the
// junction-tree compiler never needs its own mutable copy of the network's
// structure — it borrows one.
type DAGSource interface {
	Nodes() []NodeID
	Parents(n NodeID) []NodeID
}

// DAGView is a read-only adapter that derives graph-theoretic views
// (children, ancestors, descendants, topological order, moral graph) from a
// DAGSource without copying or mutating it.
//
// Adapted from bngo's graph.DAG, which owned its nodes/edges/parents
// maps directly; here the DAG is owned elsewhere (the Bayesian network) and
// DAGView only derives from it, following a borrowed-BN discipline.
type DAGView struct {
	src      DAGSource
	children map[NodeID]NodeSet
}

// NewDAGView builds a view over src, indexing children from src.Parents so
// that Children, Ancestors, Descendants and TopologicalSort don't each
// re-scan every node's parent list.
func NewDAGView(src DAGSource) *DAGView {
	v := &DAGView{src: src, children: make(map[NodeID]NodeSet)}
	for _, n := range src.Nodes() {
		if _, ok := v.children[n]; !ok {
			v.children[n] = make(NodeSet)
		}
		for _, p := range src.Parents(n) {
			if v.children[p] == nil {
				v.children[p] = make(NodeSet)
			}
			v.children[p].Add(n)
		}
	}
	return v
}

// Nodes returns every node of the underlying source.
func (v *DAGView) Nodes() []NodeID {
	return v.src.Nodes()
}

// Parents returns the parents of n, in ascending order.
func (v *DAGView) Parents(n NodeID) []NodeID {
	ids := append([]NodeID(nil), v.src.Parents(n)...)
	sortNodeIDs(ids)
	return ids
}

// Children returns the children of n, in ascending order.
func (v *DAGView) Children(n NodeID) []NodeID {
	return v.children[n].Slice()
}

// Ancestors returns every strict ancestor of n, in ascending order.
func (v *DAGView) Ancestors(n NodeID) []NodeID {
	visited := make(NodeSet)
	v.ancestors(n, visited)
	visited.Remove(n)
	return visited.Slice()
}

func (v *DAGView) ancestors(n NodeID, visited NodeSet) {
	if visited.Contains(n) {
		return
	}
	visited.Add(n)
	for _, p := range v.src.Parents(n) {
		v.ancestors(p, visited)
	}
}

// Descendants returns every strict descendant of n, in ascending order.
func (v *DAGView) Descendants(n NodeID) []NodeID {
	visited := make(NodeSet)
	v.descendants(n, visited)
	visited.Remove(n)
	return visited.Slice()
}

func (v *DAGView) descendants(n NodeID, visited NodeSet) {
	if visited.Contains(n) {
		return
	}
	visited.Add(n)
	for child := range v.children[n] {
		v.descendants(child, visited)
	}
}

// TopologicalSort returns nodes ordered so that every parent precedes its
// children, breaking ties by ascending NodeID for determinism. Returns
// ErrCycle if the source is not acyclic.
func (v *DAGView) TopologicalSort() ([]NodeID, error) {
	nodes := v.src.Nodes()
	inDegree := make(map[NodeID]int, len(nodes))
	for _, n := range nodes {
		inDegree[n] = len(v.src.Parents(n))
	}

	queue := make([]NodeID, 0)
	for _, n := range nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	result := make([]NodeID, 0, len(nodes))
	for len(queue) > 0 {
		sortNodeIDs(queue)
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)

		for child := range v.children[n] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(result) != len(nodes) {
		return nil, ErrCycle
	}
	return result, nil
}

// MoralGraph builds the moral graph of the source: every directed edge
// becomes undirected, and every pair of parents sharing a common child is
// connected ("married"). This is the first step of junction-tree
// compilation.
func (v *DAGView) MoralGraph() *UndirectedGraph {
	ug := NewUndirectedGraph()
	for _, n := range v.src.Nodes() {
		ug.AddNode(n)
		parents := v.src.Parents(n)
		for _, p := range parents {
			ug.AddEdge(p, n)
		}
		for i := 0; i < len(parents); i++ {
			for j := i + 1; j < len(parents); j++ {
				ug.AddEdge(parents[i], parents[j])
			}
		}
	}
	return ug
}

// MoralGraphOver builds the moral graph restricted to keep: only nodes in
// keep are added, and only their parents that are themselves in keep take
// part in the edges/marriages. Used by the junction-tree compiler to
// moralise over the ancestral set of the current targets and evidence
// instead of the whole network.
func (v *DAGView) MoralGraphOver(keep NodeSet) *UndirectedGraph {
	ug := NewUndirectedGraph()
	for n := range keep {
		ug.AddNode(n)
		var parents []NodeID
		for _, p := range v.src.Parents(n) {
			if keep.Contains(p) {
				parents = append(parents, p)
				ug.AddEdge(p, n)
			}
		}
		for i := 0; i < len(parents); i++ {
			for j := i + 1; j < len(parents); j++ {
				ug.AddEdge(parents[i], parents[j])
			}
		}
	}
	return ug
}

// Ancestors union, including the nodes themselves — the set kept by
// barren-node pruning when compiling a junction tree restricted to the
// current targets and evidence.
func (v *DAGView) AncestralSet(nodes []NodeID) NodeSet {
	set := NewNodeSet(nodes...)
	for _, n := range nodes {
		for _, a := range v.Ancestors(n) {
			set.Add(a)
		}
	}
	return set
}
