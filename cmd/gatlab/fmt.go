package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/gatlab/pkg/sexpr"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [sexp]",
	Short: "Convert an S-expression between text and JSON forms",
	Long: `Reads an S-expression (text or JSON) and prints it in text form, or as JSON
with --json. No theory is involved: the input is not checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		v, err := readSexp(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if asJSON {
			data, err := sexpr.ToJSON(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), sexpr.Format(v))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().Bool("json", false, "Print JSON instead of text")
}
