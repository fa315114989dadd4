package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "remind",
		Short: "LuxeRent reminder engine tool",
		Long: `remind runs the rent reminder engine against a JSON portfolio without a
server or database.

Example workflow:
  1. remind sample > portfolio.json
  2. remind evaluate --fixtures portfolio.json --date 2023-10-29`,
		SilenceUsage: true,
	}
	root.AddCommand(newEvaluateCmd(), newSampleCmd())
	return root
}
