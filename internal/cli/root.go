package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elchristog/marketing-funnels-gestor/internal/infrastructure/logging"
)

var rootCmd = &cobra.Command{
	Use:   "mfunnel",
	Short: "Marketing conversion funnel tracker",
	Long: `mfunnel records how many people pass through each step of a marketing
funnel, the hypotheses behind each change, and reports conversion rates for
any date range, overall or week by week.

Configuration comes from MFUNNEL_* environment variables; the flags below
override them for a single invocation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
}

// Global flags
var (
	dbPath    string
	logLevel  string
	logFormat string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a local database file (overrides MFUNNEL_DATABASE_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")

	rootCmd.AddCommand(migrateCmd)
}

// setupLogging configures logrus from the flags, falling back to the
// environment. Logs go to stderr so command output stays pipeable.
func setupLogging(cmd *cobra.Command) error {
	level, format := logLevel, logFormat
	if level == "" {
		level = envOr("LOG_LEVEL", "info")
	}
	if format == "" {
		format = envOr("LOG_FORMAT", "text")
	}
	return logging.Setup(cmd.ErrOrStderr(), level, format)
}
