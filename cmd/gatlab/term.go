package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Manage stored terms",
	Long:  `Lists, shows, saves and removes terms in the store selected with --store.`,
}

var termLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored terms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		names, err := eng.Terms(cmd.Context())
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var termShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a stored term and its type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		eng, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		e, err := eng.LoadTerm(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printTerm(cmd, e, asJSON)
	},
}

var termSaveCmd = &cobra.Command{
	Use:   "save NAME [term]",
	Short: "Check a term and store it under NAME",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := readSexp(args[1:], cmd.InOrStdin())
		if err != nil {
			return err
		}
		eng, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		e, err := eng.Check(cmd.Context(), v)
		if err != nil {
			return err
		}
		if err := eng.SaveTerm(cmd.Context(), args[0], e); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], e.Signature())
		return nil
	},
}

var termRmCmd = &cobra.Command{
	Use:   "rm NAME...",
	Short: "Remove stored terms",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine(cmd, nil)
		if err != nil {
			return err
		}
		for _, name := range args {
			if err := eng.DeleteTerm(cmd.Context(), name); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(termCmd)
	termCmd.AddCommand(termLsCmd, termShowCmd, termSaveCmd, termRmCmd)
	termShowCmd.Flags().Bool("json", false, "Print the term as a JSON S-expression")
}
