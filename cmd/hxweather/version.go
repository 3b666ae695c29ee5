package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/hxweather/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "hxweather", build.String())
			return err
		},
	}
}
