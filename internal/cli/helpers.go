package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/infrastructure/config"
)

// withApp runs fn with a ready AppContext and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *AppContext) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(ctx, app)
}

func envOr(name, fallback string) string {
	if v := os.Getenv(config.Prefix + "_" + name); v != "" {
		return v
	}
	return fallback
}

// optionalDate parses a --date flag; empty means "let the service decide".
func optionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// rangeFromFlags resolves --preset, or --from/--to defaulting to the
// current month.
func rangeFromFlags(app *AppContext, preset, from, to string) (domain.DateRange, error) {
	if preset != "" {
		dr, ok := domain.PresetRange(preset, app.Service.Today())
		if !ok {
			return domain.DateRange{}, fmt.Errorf("unknown preset %q; use %s, %s, %s or %s", preset,
				domain.PresetThisMonth, domain.PresetLastMonth, domain.PresetThisWeek, domain.PresetLast30Days)
		}
		return dr, nil
	}
	return app.Service.ParseRange(from, to)
}

// addRangeFlags registers the shared date range flags on cmd.
func addRangeFlags(cmd *cobra.Command, preset, from, to *string) {
	cmd.Flags().StringVar(preset, "preset", "", "Named range: this-month, last-month, this-week, last-30-days")
	cmd.Flags().StringVar(from, "from", "", "Start date (YYYY-MM-DD, default: first day of this month)")
	cmd.Flags().StringVar(to, "to", "", "End date (YYYY-MM-DD, default: last day of this month)")
}
