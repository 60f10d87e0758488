package main

import (
	"github.com/JohnPierman/bnjt/graph"
	"github.com/JohnPierman/bnjt/inference"
	"github.com/spf13/cobra"
)

var (
	impactModel        string
	impactTarget       string
	impactConditioning []string
)

var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Show how a variable's posterior would respond to each possible value of a conditioning set",
	RunE:  runImpact,
}

func init() {
	impactCmd.Flags().StringVar(&impactModel, "model", "sprinkler", "example model to query")
	impactCmd.Flags().StringVar(&impactTarget, "target", "", "variable whose posterior to report (required)")
	impactCmd.Flags().StringSliceVar(&impactConditioning, "conditioning", nil, "variable(s) to vary, comma-separated")
	impactCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) error {
	net, err := loadModel(impactModel)
	if err != nil {
		return err
	}

	targets, err := resolveNames(net, []string{impactTarget})
	if err != nil {
		return err
	}
	target := targets[0]

	conditioning, err := resolveNames(net, impactConditioning)
	if err != nil {
		return err
	}

	eng := inference.New(net)
	impact, err := eng.EvidenceImpact(target, graph.NewNodeSet(conditioning...))
	if err != nil {
		return err
	}

	printJoint(cmd.OutOrStdout(), net, impact, append([]graph.NodeID{target}, conditioning...))
	return nil
}
