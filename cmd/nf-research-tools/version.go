package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of nf-research-tools",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nf-research-tools %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
