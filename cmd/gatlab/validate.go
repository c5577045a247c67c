package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/gatlab"
	"github.com/aretw0/gatlab/internal/presentation/tui"
	"github.com/aretw0/gatlab/pkg/theory"
)

var validateCmd = &cobra.Command{
	Use:   "validate [theory]",
	Short: "Check a theory for consistency",
	Long: `Loads a theory and reports every problem found: unknown constructors, unbound
variables, arity mismatches and cyclic result types.
With --watch, a Markdown theory document is validated again on every change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("theory")
		if len(args) > 0 {
			ref = args[0]
		}
		watch, _ := cmd.Flags().GetBool("watch")
		out := cmd.OutOrStdout()

		report := func() error {
			th, err := gatlab.LoadTheory(ref)
			if err != nil {
				fmt.Fprintln(out, tui.Status(false, "invalid"), ref)
				for _, e := range theory.ValidationErrors(err) {
					fmt.Fprintf(out, "  - %v\n", e)
				}
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(out, "%s %s: %d types, %d terms\n",
				tui.Status(true, "valid"), th.Name(), len(th.Types()), len(th.Terms()))
			return nil
		}

		if !watch {
			return report()
		}

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		_ = report()
		eng, err := gatlab.New(ref, gatlab.WithLogger(logger))
		if err != nil {
			return err
		}
		events, err := eng.Watch(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Watching for changes (Ctrl+C to stop)...")
		for id := range events {
			logger.Debug("Theory changed", "id", id)
			_ = report()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolP("watch", "w", false, "Validate again whenever a Markdown theory changes")
}
