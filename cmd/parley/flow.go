package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley/internal/cli"
)

// flowCmd represents the flow command
var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Run the guided product-matching flow",
	Long: `Walks the demo catalogue flow step by step: photo upload, item review,
catalogue matching, order confirmation and cross-sell, finishing with the
priced quote lines.

Review steps accept simple commands such as "remove 2", "alt 0", "pick 1",
"back" or "skip"; press enter to confirm and move on.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.RunFlow(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(flowCmd)
}
