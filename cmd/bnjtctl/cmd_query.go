package main

import (
	"fmt"

	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/inference"
	"github.com/spf13/cobra"
)

var (
	queryModel    string
	queryEvidence []string
	queryTargets  []string
	queryJoint    bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Compute posteriors over one or more variables given evidence",
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryModel, "model", "sprinkler", "example model to query ("+fmt.Sprint(modelNames())+")")
	queryCmd.Flags().StringSliceVar(&queryEvidence, "evidence", nil, "hard evidence as Name=state, repeatable")
	queryCmd.Flags().StringSliceVar(&queryTargets, "target", nil, "variable(s) to query; defaults to every non-evidence variable")
	queryCmd.Flags().BoolVar(&queryJoint, "joint", false, "query --target variables as a single joint posterior instead of one at a time")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	net, err := loadModel(queryModel)
	if err != nil {
		return err
	}

	evidence, err := parseEvidence(net, queryEvidence)
	if err != nil {
		return err
	}

	eng := inference.New(net)
	for _, e := range evidence {
		if err := eng.AddHardEvidence(e.Node, e.State); err != nil {
			return err
		}
	}

	targetNames := queryTargets
	if len(targetNames) == 0 {
		for _, id := range net.Nodes() {
			v, _ := net.Variable(id)
			isEvidence := false
			for _, e := range evidence {
				if e.Node == id {
					isEvidence = true
					break
				}
			}
			if !isEvidence {
				targetNames = append(targetNames, v.Name)
			}
		}
	}

	targets, err := resolveNames(net, targetNames)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if queryJoint {
		eng.AddJointTarget(graph.NewNodeSet(targets...))
		post, err := eng.JointPosterior(graph.NewNodeSet(targets...))
		if err != nil {
			return err
		}
		printJoint(out, net, post, targets)
		return nil
	}

	for _, t := range targets {
		eng.AddTarget(t)
	}
	for _, t := range targets {
		post, err := eng.Posterior(t)
		if err != nil {
			return err
		}
		v, _ := net.Variable(t)
		fmt.Fprintf(out, "P(%s | evidence):\n", v.Name)
		for s := 0; s < v.Card; s++ {
			fmt.Fprintf(out, "  %s=%d : %.6f\n", v.Name, s, post.Get(map[graph.NodeID]int{t: s}))
		}
	}
	return nil
}
