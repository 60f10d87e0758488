// bnjtctl is a small command-line front end over the junction-tree engine:
// pick one of the bundled example networks, enter evidence, and query
// posteriors. Adapted from bngo's cmd/demo, restructured around cobra the
// way jinterlante1206-AleutianLocal/cmd/aleutian lays out its
// root/subcommand tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bnjtctl",
	Short: "Query discrete Bayesian networks with exact junction-tree inference",
	Long: `bnjtctl loads one of a handful of bundled example networks and
answers posterior queries against it using Shafer-Shenoy message passing
over a compiled junction tree.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
