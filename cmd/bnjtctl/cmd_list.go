package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List the bundled example networks and their variables",
	RunE:  runListModels,
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
}

func runListModels(cmd *cobra.Command, args []string) error {
	for _, name := range modelNames() {
		net, err := loadModel(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", name)
		for _, id := range net.Nodes() {
			v, err := net.Variable(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %-14s cardinality %d\n", v.Name, v.Card)
		}
	}
	return nil
}
