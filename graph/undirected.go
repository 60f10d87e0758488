package graph

// UndirectedGraph represents an undirected graph over NodeIDs. It backs the
// moral graph built by the jtree compiler and the triangulated graph
// produced by a triangulate.Strategy.
//
// Adapted from bngo's graph.UndirectedGraph (string-keyed); the node
// type is generalized to NodeID.
type UndirectedGraph struct {
	nodes map[NodeID]struct{}
	edges map[NodeID]NodeSet
}

// NewUndirectedGraph creates a new empty undirected graph.
func NewUndirectedGraph() *UndirectedGraph {
	return &UndirectedGraph{
		nodes: make(map[NodeID]struct{}),
		edges: make(map[NodeID]NodeSet),
	}
}

// AddNode adds a node to the graph.
func (g *UndirectedGraph) AddNode(n NodeID) {
	if _, ok := g.nodes[n]; !ok {
		g.nodes[n] = struct{}{}
		g.edges[n] = make(NodeSet)
	}
}

// AddEdge adds an undirected edge between two nodes.
func (g *UndirectedGraph) AddEdge(a, b NodeID) {
	if a == b {
		return
	}
	g.AddNode(a)
	g.AddNode(b)
	g.edges[a].Add(b)
	g.edges[b].Add(a)
}

// RemoveEdge removes an undirected edge.
func (g *UndirectedGraph) RemoveEdge(a, b NodeID) {
	if g.edges[a] != nil {
		g.edges[a].Remove(b)
	}
	if g.edges[b] != nil {
		g.edges[b].Remove(a)
	}
}

// RemoveNode removes a node and every edge touching it.
func (g *UndirectedGraph) RemoveNode(n NodeID) {
	if _, ok := g.nodes[n]; !ok {
		return
	}
	for neighbor := range g.edges[n] {
		g.edges[neighbor].Remove(n)
	}
	delete(g.edges, n)
	delete(g.nodes, n)
}

// HasNode reports whether n belongs to the graph.
func (g *UndirectedGraph) HasNode(n NodeID) bool {
	_, ok := g.nodes[n]
	return ok
}

// HasEdge reports whether an edge exists between a and b.
func (g *UndirectedGraph) HasEdge(a, b NodeID) bool {
	if g.edges[a] == nil {
		return false
	}
	return g.edges[a].Contains(b)
}

// Nodes returns all nodes in ascending order.
func (g *UndirectedGraph) Nodes() []NodeID {
	out := make([]NodeID, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sortNodeIDs(out)
	return out
}

// Size returns the number of nodes.
func (g *UndirectedGraph) Size() int {
	return len(g.nodes)
}

// Neighbors returns the neighbours of a node in ascending order.
func (g *UndirectedGraph) Neighbors(n NodeID) []NodeID {
	set := g.edges[n]
	if set == nil {
		return nil
	}
	return set.Slice()
}

// Degree returns the number of neighbours of n.
func (g *UndirectedGraph) Degree(n NodeID) int {
	return len(g.edges[n])
}

// Edges returns each undirected edge once, as [2]NodeID with the smaller id
// first.
func (g *UndirectedGraph) Edges() [][2]NodeID {
	out := make([][2]NodeID, 0)
	for a, neighbors := range g.edges {
		for b := range neighbors {
			if a < b {
				out = append(out, [2]NodeID{a, b})
			}
		}
	}
	return out
}

// Copy returns a deep copy of the graph.
func (g *UndirectedGraph) Copy() *UndirectedGraph {
	out := NewUndirectedGraph()
	for n := range g.nodes {
		out.AddNode(n)
	}
	for _, e := range g.Edges() {
		out.AddEdge(e[0], e[1])
	}
	return out
}

// CliqueAround returns n together with all of its current neighbours, the
// set that becomes a clique if n is eliminated and its neighbours are
// pairwise connected.
func (g *UndirectedGraph) CliqueAround(n NodeID) NodeSet {
	s := make(NodeSet, len(g.edges[n])+1)
	s.Add(n)
	for neighbor := range g.edges[n] {
		s.Add(neighbor)
	}
	return s
}

// Eliminate removes n after connecting every pair of its current neighbours
// (the fill-in step of triangulation), returning the fill-in edges added.
func (g *UndirectedGraph) Eliminate(n NodeID) [][2]NodeID {
	neighbors := g.Neighbors(n)
	var fillIns [][2]NodeID
	for i := 0; i < len(neighbors); i++ {
		for j := i + 1; j < len(neighbors); j++ {
			a, b := neighbors[i], neighbors[j]
			if !g.HasEdge(a, b) {
				g.AddEdge(a, b)
				fillIns = append(fillIns, [2]NodeID{a, b})
			}
		}
	}
	g.RemoveNode(n)
	return fillIns
}
