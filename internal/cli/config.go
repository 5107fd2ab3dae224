package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elchristog/marketing-funnels-gestor/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration mfunnel would run with, after reading the
MFUNNEL_* environment variables and applying flag overrides.

Examples:
  mfunnel config
  MFUNNEL_CACHE_SIZE=0 mfunnel config`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SETTING\tVALUE")
	fmt.Fprintln(w, "-------\t-----")
	for _, row := range configRows(cfg) {
		fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	return w.Flush()
}

func configRows(cfg *config.Config) [][2]string {
	token := "-"
	if cfg.Database.AuthToken != "" {
		token = "(set)"
	}
	database := cfg.Database.Path
	if cfg.Database.URL != "" {
		database = cfg.Database.URL
	}
	otelEndpoint := "-"
	if cfg.Otel.Enabled {
		otelEndpoint = cfg.Otel.Endpoint
	}

	return [][2]string{
		{"database", database},
		{"auth_token", token},
		{"port", fmt.Sprint(cfg.Port)},
		{"cache_size", fmt.Sprint(cfg.CacheSize)},
		{"shutdown_timeout", cfg.ShutdownTimeout.String()},
		{"log_level", cfg.Log.Level},
		{"log_format", cfg.Log.Format},
		{"otel_endpoint", otelEndpoint},
	}
}
