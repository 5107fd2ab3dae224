package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elchristog/marketing-funnels-gestor/internal/analytics"
	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/util"
)

var registrationCmd = &cobra.Command{
	Use:     "registration",
	Aliases: []string{"reg"},
	Short:   "Record and list step realizations",
}

var registrationAddCmd = &cobra.Command{
	Use:   "add <step> <realizations>",
	Short: "Record realizations for a funnel step",
	Long: `Record how many realizations a funnel step had on a day. The step can be
given by ID or by name. Without --date the registration is dated today.

Examples:
  mfunnel registration add "Landing visit" 1200
  mfunnel registration add Signup 85 --date 2023-07-03 --description "Newsletter push"`,
	Args: cobra.ExactArgs(2),
	RunE: runRegistrationAdd,
}

var registrationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registrations in a date range",
	Args:  cobra.NoArgs,
	RunE:  runRegistrationList,
}

// Flags
var (
	regDescription string
	regDate        string
	regPreset      string
	regFrom        string
	regTo          string
)

func init() {
	rootCmd.AddCommand(registrationCmd)
	registrationCmd.AddCommand(registrationAddCmd)
	registrationCmd.AddCommand(registrationListCmd)

	registrationAddCmd.Flags().StringVarP(&regDescription, "description", "d", "", "Free-form note")
	registrationAddCmd.Flags().StringVar(&regDate, "date", "", "Date (YYYY-MM-DD, default: today)")
	addRangeFlags(registrationListCmd, &regPreset, &regFrom, &regTo)
}

func runRegistrationAdd(cmd *cobra.Command, args []string) error {
	realizations, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid realizations: %s", args[1])
	}
	date, err := optionalDate(regDate)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		step, err := app.Service.ResolveStep(ctx, args[0])
		if err != nil {
			return err
		}

		reg, err := app.Service.AddRegistration(ctx, analytics.RegistrationInput{
			FunnelStepID: step.ID,
			Description:  util.OptionalString(regDescription),
			Realizations: realizations,
			Date:         date,
		})
		if err != nil {
			return fmt.Errorf("failed to add registration: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s realizations for %s on %s\n",
			util.FormatNumber(reg.Realizations), step.Name, domain.FormatDate(reg.Date))
		return nil
	})
}

func runRegistrationList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		dr, err := rangeFromFlags(app, regPreset, regFrom, regTo)
		if err != nil {
			return err
		}
		regs, err := app.Service.ListRegistrations(ctx, dr)
		if err != nil {
			return fmt.Errorf("failed to list registrations: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(regs) == 0 {
			fmt.Fprintf(out, "No registrations between %s and %s\n", dr.StartString(), dr.EndString())
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tSTEP\tREALIZATIONS\tDESCRIPTION")
		fmt.Fprintln(w, "----\t----\t------------\t-----------")
		for _, r := range regs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				domain.FormatDate(r.Date), r.StepName, util.FormatNumber(r.Realizations), util.Deref(r.Description))
		}
		return w.Flush()
	})
}
