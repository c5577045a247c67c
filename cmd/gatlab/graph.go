package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/gatlab/internal/presentation/graph"
	"github.com/aretw0/gatlab/pkg/expr"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [term]",
	Short: "Export a Mermaid diagram of a term or of the theory",
	Long: `Outputs a Mermaid flowchart. With a term (or --term NAME) it draws the term
as a DAG of constructor applications; without one it draws the signature of the
theory. --highlight marks every occurrence of the given stored terms.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("term")
		highlights, _ := cmd.Flags().GetStringSlice("highlight")

		eng, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		var e *expr.Expr
		switch {
		case name != "":
			e, err = eng.LoadTerm(cmd.Context(), name)
		case len(args) > 0:
			var v any
			v, err = readSexp(args, cmd.InOrStdin())
			if err == nil {
				e, err = eng.Decode(cmd.Context(), v, false)
			}
		default:
			fmt.Fprint(out, graph.TheoryMermaid(eng.Theory()))
			return nil
		}
		if err != nil {
			return err
		}

		overlay := &graph.Overlay{}
		for _, h := range highlights {
			x, err := eng.LoadTerm(cmd.Context(), h)
			if err != nil {
				return err
			}
			overlay.Highlight = append(overlay.Highlight, x)
		}
		fmt.Fprint(out, graph.ExprMermaid(e, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("term", "", "Draw the stored term with this name")
	graphCmd.Flags().StringSlice("highlight", nil, "Stored terms to highlight")
}
