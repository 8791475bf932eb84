package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "complianceplanner",
		Short:        "Recurring compliance deadlines for people and structures",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSeedCmd())
	return cmd
}
