package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/util"
)

var funnelCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Show conversion through the funnel",
	Long: `Show realizations and conversion rates per step for a date range.

The conversion rate of a step is its realizations divided by the previous
step's; it is left blank when the previous step had none. With --weekly the
rate is computed within each week of the month and the hypotheses recorded
that week are listed alongside.

Examples:
  mfunnel funnel
  mfunnel funnel --preset last-month
  mfunnel funnel --weekly --from 2023-07-01 --to 2023-07-31`,
	Args: cobra.NoArgs,
	RunE: runFunnel,
}

// Flags
var (
	funnelWeekly bool
	funnelPreset string
	funnelFrom   string
	funnelTo     string
)

func init() {
	rootCmd.AddCommand(funnelCmd)
	funnelCmd.Flags().BoolVarP(&funnelWeekly, "weekly", "w", false, "Break the funnel down by week of month")
	addRangeFlags(funnelCmd, &funnelPreset, &funnelFrom, &funnelTo)
}

func runFunnel(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		dr, err := rangeFromFlags(app, funnelPreset, funnelFrom, funnelTo)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if funnelWeekly {
			rows, err := app.Service.GetFunnelByWeek(ctx, dr)
			if err != nil {
				return fmt.Errorf("failed to get weekly funnel: %w", err)
			}
			return printWeekly(out, dr, rows)
		}

		rows, err := app.Service.GetFunnel(ctx, dr)
		if err != nil {
			return fmt.Errorf("failed to get funnel: %w", err)
		}
		return printFunnel(out, dr, rows)
	})
}

func printFunnel(out io.Writer, dr domain.DateRange, rows []domain.FunnelRow) error {
	fmt.Fprintf(out, "Funnel %s to %s\n\n", dr.StartString(), dr.EndString())
	if len(rows) == 0 {
		fmt.Fprintln(out, "No funnel steps found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSTEP\tREALIZATIONS\tCONVERSION")
	fmt.Fprintln(w, "-----\t----\t------------\t----------")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.OrderNumber, r.StepName, util.FormatNumber(r.Realizations), util.FormatRate(r.ConversionRate))
	}
	fmt.Fprintf(w, "\t%s\t%s\t\n", "TOTAL", util.FormatNumber(domain.TotalRealizations(rows)))
	return w.Flush()
}

func printWeekly(out io.Writer, dr domain.DateRange, rows []domain.WeeklyFunnelRow) error {
	fmt.Fprintf(out, "Weekly funnel %s to %s\n\n", dr.StartString(), dr.EndString())
	if len(rows) == 0 {
		fmt.Fprintln(out, "No registrations in this range")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WEEK\tDATE\tSTEP\tREALIZATIONS\tCONVERSION\tHYPOTHESES")
	fmt.Fprintln(w, "----\t----\t----\t------------\t----------\t----------")
	for _, r := range rows {
		hyps := r.HypothesisNames
		if hyps == "" {
			hyps = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.WeekKey.Label(), domain.FormatDate(r.Date), r.StepName,
			util.FormatNumber(r.Realizations), util.FormatRate(r.ConversionRate), hyps)
	}
	return w.Flush()
}
