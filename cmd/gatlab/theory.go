package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/gatlab/internal/presentation/tui"
	"github.com/aretw0/gatlab/pkg/theories"
	"github.com/aretw0/gatlab/pkg/theory"
)

var theoryCmd = &cobra.Command{
	Use:   "theory",
	Short: "Describe the selected theory",
	Long: `Prints the type and term constructors of the theory selected with --theory.
The default markdown output is rendered for the terminal; yaml and json print the
theory document, which can be saved and loaded back with --theory file.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if list, _ := cmd.Flags().GetBool("list"); list {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(theories.Names(), "\n"))
			return nil
		}

		eng, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		th := eng.Theory()

		out := cmd.OutOrStdout()
		switch format {
		case "markdown", "md":
			render := tui.NewRenderer(isTTY(out))
			text, err := render(tui.TheoryMarkdown(th))
			if err != nil {
				return fmt.Errorf("failed to render theory: %w", err)
			}
			fmt.Fprint(out, text)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(theory.ToDocument(th)); err != nil {
				return err
			}
			return enc.Close()
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(theory.ToDocument(th))
		default:
			return fmt.Errorf("unknown format %q (want markdown, yaml or json)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(theoryCmd)
	theoryCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, yaml or json")
	theoryCmd.Flags().Bool("list", false, "List the built-in theories")
}
