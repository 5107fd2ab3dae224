package cli

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/elchristog/marketing-funnels-gestor/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long: `Start the web dashboard server.

Examples:
  mfunnel serve              # Start on MFUNNEL_PORT (default 8080)
  mfunnel serve --port 3000  # Start on port 3000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default: MFUNNEL_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withApp(cmd, func(_ context.Context, app *AppContext) error {
		port := app.Config.Port
		if servePort > 0 {
			port = servePort
		}

		go func() {
			<-ctx.Done()
			log.Info("shutting down")
		}()

		server := web.NewServer(app.Service, port, app.Config.ShutdownTimeout)
		return server.Start(ctx)
	})
}
