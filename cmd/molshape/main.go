// Command molshape screens molecule libraries against a query by Gaussian
// shape and pharmacophore similarity.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "molshape",
		Short:         "Molecular shape and color similarity screening",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newScreenCmd(), newDevicesCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "molshape:", err)
		os.Exit(1)
	}
}
