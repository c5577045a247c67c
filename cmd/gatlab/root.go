package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gatlab",
	Short: "gatlab checks and evaluates terms of generalized algebraic theories",
	Long: `gatlab builds typed terms from a theory (a built-in one, a YAML file or a
Markdown theory document), checks their equations, stores them by name and
serves them over HTTP or MCP.

Terms are written as S-expressions, either in text form
  (compose (Hom f (Ob A) (Ob B)) g)
or as JSON
  ["compose", ["Hom", "f", ["Ob", "A"], ["Ob", "B"]], "g"]
Bare names such as g refer to stored terms.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("theory", "t", "category", "Theory: built-in name, .yaml file or .md document")
	rootCmd.PersistentFlags().String("store", "", "Term store: directory (default .gatlab/terms), 'memory' or redis://host:port/db")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}
