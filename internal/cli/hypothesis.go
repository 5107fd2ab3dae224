package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elchristog/marketing-funnels-gestor/internal/analytics"
	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/util"
)

var hypothesisCmd = &cobra.Command{
	Use:   "hypothesis",
	Short: "Record and list hypotheses",
	Long:  `Hypotheses are dated notes about changes expected to move the funnel.`,
}

var hypothesisAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Record a hypothesis",
	Long: `Record a hypothesis. Without --date it is dated today.

Examples:
  mfunnel hypothesis add "Shorter signup form" --description "Drop the phone field"`,
	Args: cobra.ExactArgs(1),
	RunE: runHypothesisAdd,
}

var hypothesisListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hypotheses in a date range",
	Args:  cobra.NoArgs,
	RunE:  runHypothesisList,
}

// Flags
var (
	hypDescription string
	hypDate        string
	hypPreset      string
	hypFrom        string
	hypTo          string
)

func init() {
	rootCmd.AddCommand(hypothesisCmd)
	hypothesisCmd.AddCommand(hypothesisAddCmd)
	hypothesisCmd.AddCommand(hypothesisListCmd)

	hypothesisAddCmd.Flags().StringVarP(&hypDescription, "description", "d", "", "What the hypothesis expects")
	hypothesisAddCmd.Flags().StringVar(&hypDate, "date", "", "Date (YYYY-MM-DD, default: today)")
	addRangeFlags(hypothesisListCmd, &hypPreset, &hypFrom, &hypTo)
}

func runHypothesisAdd(cmd *cobra.Command, args []string) error {
	date, err := optionalDate(hypDate)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		h, err := app.Service.AddHypothesis(ctx, analytics.HypothesisInput{
			Name:        args[0],
			Description: util.OptionalString(hypDescription),
			Date:        date,
		})
		if err != nil {
			return fmt.Errorf("failed to add hypothesis: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded hypothesis %s on %s\n", h.Name, domain.FormatDate(h.Date))
		return nil
	})
}

func runHypothesisList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		dr, err := rangeFromFlags(app, hypPreset, hypFrom, hypTo)
		if err != nil {
			return err
		}
		hyps, err := app.Service.ListHypotheses(ctx, dr)
		if err != nil {
			return fmt.Errorf("failed to list hypotheses: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(hyps) == 0 {
			fmt.Fprintf(out, "No hypotheses between %s and %s\n", dr.StartString(), dr.EndString())
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tNAME\tDESCRIPTION")
		fmt.Fprintln(w, "----\t----\t-----------")
		for _, h := range hyps {
			fmt.Fprintf(w, "%s\t%s\t%s\n", domain.FormatDate(h.Date), h.Name, util.Deref(h.Description))
		}
		return w.Flush()
	})
}
