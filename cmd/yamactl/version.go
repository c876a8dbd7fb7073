package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yamactl/yamactl/internal/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat == "json" {
			return printJSON(version.Current())
		}
		fmt.Println("yamactl " + version.Full())
		return nil
	},
}
