package bnet

import (
	"math/rand"

	"github.com/JohnPierman/bnjt/graph"
)

// Simulate draws nSamples ancestral samples from the network's joint
// distribution, used to manufacture example networks and test fixtures in
// place of the file-format readers this module does not implement.
//
// Adapted from JohnPierman/bngo's BayesianNetwork.Simulate; kept only as a
// fixture generator — the junction-tree engine never calls this, since
// exact inference is the point of the rest of the module.
func (n *DiscreteNetwork) Simulate(nSamples int, seed int64) ([]map[graph.NodeID]int, error) {
	view := graph.NewDAGView(n)
	order, err := view.TopologicalSort()
	if err != nil {
		return nil, err
	}

	r := rand.New(rand.NewSource(seed))
	samples := make([]map[graph.NodeID]int, nSamples)

	for i := 0; i < nSamples; i++ {
		sample := make(map[graph.NodeID]int, len(order))
		for _, node := range order {
			cpt, err := n.CPT(node)
			if err != nil {
				return nil, err
			}
			assignment := make(map[graph.NodeID]int, len(cpt.Vars))
			for _, p := range n.Parents(node) {
				assignment[p] = sample[p]
			}

			card := n.vars[node].Card
			probs := make([]float64, card)
			for state := 0; state < card; state++ {
				assignment[node] = state
				probs[state] = cpt.Get(assignment)
			}
			sample[node] = sampleCategorical(probs, r)
		}
		samples[i] = sample
	}
	return samples, nil
}

func sampleCategorical(probs []float64, r *rand.Rand) int {
	u := r.Float64()
	cumSum := 0.0
	for i, p := range probs {
		cumSum += p
		if u <= cumSum {
			return i
		}
	}
	return len(probs) - 1
}
