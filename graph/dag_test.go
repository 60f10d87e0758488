package graph

import "testing"

// fixedDAG is a minimal DAGSource fixture for testing DAGView.
type fixedDAG struct {
	nodes   []NodeID
	parents map[NodeID][]NodeID
}

func newFixedDAG() *fixedDAG {
	return &fixedDAG{parents: make(map[NodeID][]NodeID)}
}

func (d *fixedDAG) addNode(n NodeID) {
	for _, existing := range d.nodes {
		if existing == n {
			return
		}
	}
	d.nodes = append(d.nodes, n)
}

func (d *fixedDAG) addEdge(parent, child NodeID) {
	d.addNode(parent)
	d.addNode(child)
	d.parents[child] = append(d.parents[child], parent)
}

func (d *fixedDAG) Nodes() []NodeID        { return d.nodes }
func (d *fixedDAG) Parents(n NodeID) []NodeID { return d.parents[n] }

const (
	nA NodeID = iota
	nB
	nC
	nD
)

func TestDAGViewCreation(t *testing.T) {
	d := newFixedDAG()
	d.addNode(nA)
	d.addNode(nB)
	d.addNode(nC)

	v := NewDAGView(d)
	if len(v.Nodes()) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(v.Nodes()))
	}
}

func TestDAGViewParentsChildren(t *testing.T) {
	d := newFixedDAG()
	d.addEdge(nA, nC)
	d.addEdge(nB, nC)

	v := NewDAGView(d)
	parents := v.Parents(nC)
	if len(parents) != 2 {
		t.Errorf("expected 2 parents, got %d", len(parents))
	}

	children := v.Children(nA)
	if len(children) != 1 || children[0] != nC {
		t.Errorf("expected child C, got %v", children)
	}
}

func TestDAGViewTopologicalSort(t *testing.T) {
	d := newFixedDAG()
	d.addEdge(nA, nC)
	d.addEdge(nB, nC)
	d.addEdge(nC, nD)

	v := NewDAGView(d)
	order, err := v.TopologicalSort()
	if err != nil {
		t.Fatalf("topological sort failed: %v", err)
	}

	pos := make(map[NodeID]int)
	for i, n := range order {
		pos[n] = i
	}
	if pos[nA] >= pos[nC] {
		t.Error("A should come before C")
	}
	if pos[nB] >= pos[nC] {
		t.Error("B should come before C")
	}
	if pos[nC] >= pos[nD] {
		t.Error("C should come before D")
	}
}

func TestDAGViewAncestorsDescendants(t *testing.T) {
	d := newFixedDAG()
	d.addEdge(nA, nB)
	d.addEdge(nB, nC)
	d.addEdge(nC, nD)

	v := NewDAGView(d)
	ancestors := v.Ancestors(nD)
	if len(ancestors) != 3 {
		t.Errorf("expected 3 ancestors, got %d", len(ancestors))
	}

	descendants := v.Descendants(nA)
	if len(descendants) != 3 {
		t.Errorf("expected 3 descendants, got %d", len(descendants))
	}
}

func TestDAGViewMoralGraph(t *testing.T) {
	d := newFixedDAG()
	d.addEdge(nA, nC)
	d.addEdge(nB, nC)

	v := NewDAGView(d)
	moral := v.MoralGraph()
	if !moral.HasEdge(nA, nB) {
		t.Error("expected parents A and B to be married in the moral graph")
	}
	if !moral.HasEdge(nA, nC) || !moral.HasEdge(nB, nC) {
		t.Error("expected directed edges to survive as undirected edges")
	}
}
