package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/gatlab/internal/presentation/tui"
	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/sexpr"
)

var checkCmd = &cobra.Command{
	Use:   "check [term]",
	Short: "Type-check a term against the theory",
	Long: `Decodes a term (from the arguments or stdin) and prints its type.
Equations are checked unless --strict=false. With --save NAME the checked term
is stored; --create fails instead of replacing an existing term.`,
	Example: `  gatlab check '(compose (Hom f (Ob A) (Ob B)) (Hom g (Ob B) (Ob C)))'
  echo '["id", ["Ob", "A"]]' | gatlab check --save idA`,
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		saveAs, _ := cmd.Flags().GetString("save")
		create, _ := cmd.Flags().GetBool("create")
		asJSON, _ := cmd.Flags().GetBool("json")

		v, err := readSexp(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		eng, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}

		e, err := eng.Decode(cmd.Context(), v, strict)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), tui.Status(false, "rejected"))
			return err
		}

		if saveAs != "" {
			if create {
				err = eng.CreateTerm(cmd.Context(), saveAs, e)
			} else {
				err = eng.SaveTerm(cmd.Context(), saveAs, e)
			}
			if err != nil {
				return err
			}
		}
		return printTerm(cmd, e, asJSON)
	},
}

// printTerm writes "term : Type", or the JSON S-expression with --json.
func printTerm(cmd *cobra.Command, e *expr.Expr, asJSON bool) error {
	out := cmd.OutOrStdout()
	if !asJSON {
		fmt.Fprintln(out, e.Signature())
		return nil
	}
	wire, err := sexpr.Encode(e)
	if err != nil {
		return err
	}
	data, err := sexpr.ToJSON(wire)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("strict", true, "Check the equations of every constructor")
	checkCmd.Flags().String("save", "", "Store the checked term under this name")
	checkCmd.Flags().Bool("create", false, "With --save, fail if the name is taken")
	checkCmd.Flags().Bool("json", false, "Print the term as a JSON S-expression")
}
