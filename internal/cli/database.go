package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Back up and restore the funnel database",
}

var dbExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write a snapshot of the database to a file",
	Long: `Write a consistent snapshot of the funnel database to a new SQLite file.

Examples:
  mfunnel db export backup.db`,
	Args: cobra.ExactArgs(1),
	RunE: runDBExport,
}

var dbImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the funnel data with a snapshot",
	Long: `Replace all steps, registrations and hypotheses with the ones in a
snapshot previously written by "mfunnel db export". The replacement is atomic:
on any error the current data is left untouched.

Examples:
  mfunnel db import backup.db`,
	Args: cobra.ExactArgs(1),
	RunE: runDBImport,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbExportCmd)
	dbCmd.AddCommand(dbImportCmd)
}

func runDBExport(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		if err := app.Service.ExportDatabase(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported database to %s\n", args[0])
		return nil
	})
}

func runDBImport(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		if err := app.Service.ImportDatabase(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported database from %s\n", args[0])
		return nil
	})
}
