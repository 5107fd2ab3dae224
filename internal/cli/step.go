package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Manage funnel steps",
	Long:  `Add, list and delete the ordered steps that make up the funnel.`,
}

var stepAddCmd = &cobra.Command{
	Use:   "add <name> <order>",
	Short: "Add a funnel step",
	Long: `Add a funnel step at the given position. Positions must be unique.

Examples:
  mfunnel step add "Landing visit" 1
  mfunnel step add "Signup" 2`,
	Args: cobra.ExactArgs(2),
	RunE: runStepAdd,
}

var stepListCmd = &cobra.Command{
	Use:   "list",
	Short: "List funnel steps in order",
	Args:  cobra.NoArgs,
	RunE:  runStepList,
}

var stepDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a funnel step",
	Long:  `Delete a funnel step. Steps that still have registrations cannot be deleted.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStepDelete,
}

func init() {
	rootCmd.AddCommand(stepCmd)
	stepCmd.AddCommand(stepAddCmd)
	stepCmd.AddCommand(stepListCmd)
	stepCmd.AddCommand(stepDeleteCmd)
}

func runStepAdd(cmd *cobra.Command, args []string) error {
	order, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order number: %s", args[1])
	}

	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		step, err := app.Service.AddStep(ctx, args[0], order)
		if err != nil {
			return fmt.Errorf("failed to add step: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added step %s (%d): %s\n", step.Name, step.OrderNumber, step.ID)
		return nil
	})
}

func runStepList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		steps, err := app.Service.ListSteps(ctx)
		if err != nil {
			return fmt.Errorf("failed to list steps: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(steps) == 0 {
			fmt.Fprintln(out, "No funnel steps found")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ORDER\tNAME\tID")
		fmt.Fprintln(w, "-----\t----\t--")
		for _, s := range steps {
			fmt.Fprintf(w, "%d\t%s\t%s\n", s.OrderNumber, s.Name, s.ID)
		}
		return w.Flush()
	})
}

func runStepDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		step, err := app.Service.ResolveStep(ctx, args[0])
		if err != nil {
			return err
		}
		if err := app.Service.DeleteStep(ctx, step.ID); err != nil {
			return fmt.Errorf("failed to delete step %q: %w", step.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted step %s\n", step.Name)
		return nil
	})
}
