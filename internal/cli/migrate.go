package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/elchristog/marketing-funnels-gestor/internal/adapters/turso"
	"github.com/elchristog/marketing-funnels-gestor/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Every other command migrates up automatically. Use this to inspect the
schema version or to roll back.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  mfunnel migrate      # Run all pending migrations
  mfunnel migrate 1    # Migrate to version 1
  mfunnel migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	targetVersion := -1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		targetVersion = v
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := turso.NewDB(turso.Options{
		Path:      cfg.Database.Path,
		URL:       cfg.Database.URL,
		AuthToken: cfg.Database.AuthToken,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	if targetVersion < 0 {
		if err := migrate.RunAll(ctx, db.DB); err != nil {
			return err
		}
	} else {
		from, err := migrate.To(ctx, db.DB, targetVersion)
		if err != nil {
			return err
		}
		if from == targetVersion {
			fmt.Fprintln(out, "Already at target version")
			return nil
		}
	}

	version, _, err := migrate.GetCurrentVersion(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	fmt.Fprintf(out, "Schema at version %d\n", version)
	return nil
}
