package graph

// CliqueID identifies a clique (a node of a junction tree / clique graph).
type CliqueID uint32

// CliqueGraph is an undirected tree (or forest, before a root is chosen per
// connected component) whose nodes are labelled with a set of variables —
// a clique — and whose edges carry the intersection of the two adjacent
// cliques as a separator. It is the structure triangulation produces and
// the junction-tree compiler builds clique/message storage over.
//
// New type: bngo has no clique-graph concept (it only does variable
// elimination). Grounded on the junction-tree data model and on the
// CliqueGraph/JoinTree vocabulary of aGrUM's defaultTriangulation.cpp.
type CliqueGraph struct {
	nextID     CliqueID
	labels     map[CliqueID]NodeSet
	neighbors  map[CliqueID]map[CliqueID]NodeSet // clique -> neighbor -> separator
}

// NewCliqueGraph creates an empty clique graph.
func NewCliqueGraph() *CliqueGraph {
	return &CliqueGraph{
		labels:    make(map[CliqueID]NodeSet),
		neighbors: make(map[CliqueID]map[CliqueID]NodeSet),
	}
}

// AddClique inserts a new clique labelled with vars and returns its id.
func (g *CliqueGraph) AddClique(vars NodeSet) CliqueID {
	id := g.nextID
	g.nextID++
	g.labels[id] = vars.Copy()
	g.neighbors[id] = make(map[CliqueID]NodeSet)
	return id
}

// Label returns the variable set labelling a clique.
func (g *CliqueGraph) Label(c CliqueID) NodeSet {
	return g.labels[c]
}

// Cliques returns every clique id, in ascending order.
func (g *CliqueGraph) Cliques() []CliqueID {
	out := make([]CliqueID, 0, len(g.labels))
	for id := range g.labels {
		out = append(out, id)
	}
	sortCliqueIDs(out)
	return out
}

// AddEdge connects two cliques; the separator is their label intersection.
// Both cliques must already exist.
func (g *CliqueGraph) AddEdge(a, b CliqueID) {
	if a == b {
		return
	}
	sep := g.labels[a].Intersect(g.labels[b])
	g.neighbors[a][b] = sep
	g.neighbors[b][a] = sep
}

// MergeInto removes sub, reconnecting each of its other neighbours
// directly to into (recomputing separators from into's label) so the tree
// stays connected. sub and into must already be adjacent; sub's label is
// expected to be a subset of into's, as is the case whenever this is used
// to drop a non-maximal clique produced by triangulation.
func (g *CliqueGraph) MergeInto(sub, into CliqueID) {
	for neighbor := range g.neighbors[sub] {
		if neighbor == into {
			continue
		}
		delete(g.neighbors[neighbor], sub)
		g.AddEdge(into, neighbor)
	}
	delete(g.neighbors[into], sub)
	delete(g.neighbors, sub)
	delete(g.labels, sub)
}

// RemoveEdge disconnects a and b, if they were connected. Used by binary
// join-tree conversion to detach a clique from a neighbour it is
// reattaching behind a freshly inserted auxiliary clique.
func (g *CliqueGraph) RemoveEdge(a, b CliqueID) {
	delete(g.neighbors[a], b)
	delete(g.neighbors[b], a)
}

// HasEdge reports whether a and b are directly connected.
func (g *CliqueGraph) HasEdge(a, b CliqueID) bool {
	_, ok := g.neighbors[a][b]
	return ok
}

// Neighbors returns the neighbouring cliques of c, in ascending order.
func (g *CliqueGraph) Neighbors(c CliqueID) []CliqueID {
	out := make([]CliqueID, 0, len(g.neighbors[c]))
	for n := range g.neighbors[c] {
		out = append(out, n)
	}
	sortCliqueIDs(out)
	return out
}

// Separator returns the separator (shared variables) on the edge a-b, and
// whether that edge exists.
func (g *CliqueGraph) Separator(a, b CliqueID) (NodeSet, bool) {
	sep, ok := g.neighbors[a][b]
	return sep, ok
}

// Size returns the number of cliques.
func (g *CliqueGraph) Size() int {
	return len(g.labels)
}

// ConnectedComponents partitions the cliques into connected components,
// each returned as a sorted slice of CliqueID, components ordered by their
// smallest member id.
func (g *CliqueGraph) ConnectedComponents() [][]CliqueID {
	visited := make(map[CliqueID]bool)
	var components [][]CliqueID

	for _, start := range g.Cliques() {
		if visited[start] {
			continue
		}
		var component []CliqueID
		stack := []CliqueID{start}
		visited[start] = true
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, c)
			for _, n := range g.Neighbors(c) {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		sortCliqueIDs(component)
		components = append(components, component)
	}
	return components
}

// CliqueContaining returns the first clique (in ascending id order) whose
// label is a superset of vars, and whether one was found. Used for the
// fallback clique search of joint-posterior queries.
func (g *CliqueGraph) CliqueContaining(vars NodeSet) (CliqueID, bool) {
	for _, c := range g.Cliques() {
		if vars.Subset(g.labels[c]) {
			return c, true
		}
	}
	return 0, false
}

func sortCliqueIDs(ids []CliqueID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
