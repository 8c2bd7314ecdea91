package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/molshape/molshape/engine"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available execution backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range engine.Devices() {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}
