package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley/pkg/script"
)

var validateCmd = &cobra.Command{
	Use:   "validate [script.yaml]",
	Short: "Validate a script file",
	Long:  `Loads a YAML script and checks its graph integrity: action targets, confirmation callbacks, trigger phrases and node reachability.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		graph, err := script.LoadFile(args[0])
		if err != nil {
			fmt.Printf("Invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK: %d nodes\n", graph.Len())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
