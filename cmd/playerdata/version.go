package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PizzaHomicide/playerdata/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config or logger needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	PersistentPostRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
