package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export funnel reports",
	Long: `Export funnel reports for external analysis.

Examples:
  mfunnel export report --format csv --output july.csv --from 2023-07-01 --to 2023-07-31
  mfunnel export report --view weekly --format xlsx --preset last-month
  mfunnel export report --view weekly > weekly.json`,
}

var exportReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the funnel or the weekly funnel",
	Args:  cobra.NoArgs,
	RunE:  runExportReport,
}

// Flags
var (
	exportView   string
	exportFormat string
	exportOutput string
	exportPreset string
	exportFrom   string
	exportTo     string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportReportCmd)

	exportReportCmd.Flags().StringVar(&exportView, "view", "funnel", "Report view: funnel, weekly")
	exportReportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv, xlsx")
	exportReportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	addRangeFlags(exportReportCmd, &exportPreset, &exportFrom, &exportTo)
}

func runExportReport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	if exportView != "funnel" && exportView != "weekly" {
		return fmt.Errorf("unknown view %q; use funnel or weekly", exportView)
	}

	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		dr, err := rangeFromFlags(app, exportPreset, exportFrom, exportTo)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := writeReport(ctx, app, out, format, dr); err != nil {
			return err
		}

		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s report to %s\n", exportView, exportOutput)
		}
		return nil
	})
}

func writeReport(ctx context.Context, app *AppContext, out io.Writer, format export.Format, dr domain.DateRange) error {
	if exportView == "weekly" {
		rows, err := app.Service.GetFunnelByWeek(ctx, dr)
		if err != nil {
			return fmt.Errorf("failed to get weekly funnel: %w", err)
		}
		return export.WriteWeekly(out, format, rows)
	}

	rows, err := app.Service.GetFunnel(ctx, dr)
	if err != nil {
		return fmt.Errorf("failed to get funnel: %w", err)
	}
	return export.WriteFunnel(out, format, rows)
}
