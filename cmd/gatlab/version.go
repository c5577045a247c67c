package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/gatlab"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gatlab",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gatlab version %s\n", strings.TrimSpace(gatlab.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
