package jtree

import "github.com/JohnPierman/bnjt/graph"

// binarize reduces every clique's degree to at most three by peeling
// excess neighbours off behind a freshly inserted auxiliary clique that
// shares the original clique's label. Because the auxiliary clique's label
// is a verbatim copy, every separator it participates in is at least as
// large as the one it replaces, so the running-intersection property is
// preserved trivially rather than by a minimal re-derivation.
//
// Each peel keeps two of the original neighbours on c and reattaches the
// rest behind aux, then links c to aux: c ends the peel at degree 3 (two
// original neighbours plus aux), never degree 2, so the loop below must
// break at <= 3, not <= 2 — breaking at 2 would re-peel a clique that is
// already within bounds forever.
//
// Runs as an optional post-triangulation pass (Compiler.BinaryJoinTree);
// this is a structural simplification rather than a minimum-degree-increase
// construction — see DESIGN.md.
func binarize(jt *graph.CliqueGraph) {
	queue := jt.Cliques()
	for i := 0; i < len(queue); i++ {
		c := queue[i]
		for {
			neighbors := jt.Neighbors(c)
			if len(neighbors) <= 3 {
				break
			}
			aux := jt.AddClique(jt.Label(c).Copy())
			queue = append(queue, aux)
			for _, n := range neighbors[2:] {
				jt.RemoveEdge(c, n)
				jt.AddEdge(aux, n)
			}
			jt.AddEdge(c, aux)
		}
	}
}
