package main

import (
	"fmt"
	"io"

	"github.com/JohnPierman/bnjt/bnet"
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/tensor"
)

// printJoint prints every assignment of vars and its probability under
// post, in mixed-radix order over each variable's cardinality.
func printJoint(out io.Writer, net *bnet.DiscreteNetwork, post *tensor.Tensor, vars []graph.NodeID) {
	fmt.Fprintf(out, "P(joint | evidence):\n")
	assignment := make(map[graph.NodeID]int, len(vars))
	var rec func(i int)
	rec = func(i int) {
		if i == len(vars) {
			parts := make([]string, 0, len(vars))
			for _, v := range vars {
				name, _ := net.Variable(v)
				parts = append(parts, fmt.Sprintf("%s=%d", name.Name, assignment[v]))
			}
			fmt.Fprintf(out, "  %v : %.6f\n", parts, post.Get(assignment))
			return
		}
		v := vars[i]
		variable, _ := net.Variable(v)
		for s := 0; s < variable.Card; s++ {
			assignment[v] = s
			rec(i + 1)
		}
	}
	rec(0)
}
