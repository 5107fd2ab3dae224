package cli

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/elchristog/marketing-funnels-gestor/internal/adapters/otel"
	"github.com/elchristog/marketing-funnels-gestor/internal/adapters/turso"
	"github.com/elchristog/marketing-funnels-gestor/internal/analytics"
	"github.com/elchristog/marketing-funnels-gestor/internal/infrastructure/config"
	"github.com/elchristog/marketing-funnels-gestor/internal/migrate"
	"github.com/elchristog/marketing-funnels-gestor/internal/ports"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config  *config.Config
	DB      *turso.DB
	Repos   *turso.Repositories
	Metrics ports.MetricsExporter
	Service *analytics.Service
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
		cfg.Database.URL = ""
	}
	return cfg, nil
}

// NewAppContext opens the configured database, brings its schema up to date
// and wires the funnel service on top of it.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := turso.NewDB(turso.Options{
		Path:      cfg.Database.Path,
		URL:       cfg.Database.URL,
		AuthToken: cfg.Database.AuthToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate.RunAll(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	a := &AppContext{
		Config:  cfg,
		DB:      db,
		Repos:   turso.NewRepositories(db),
		Metrics: newMetrics(ctx, cfg),
	}

	a.Service, err = analytics.NewService(analytics.Stores{
		Steps:         a.Repos.Steps,
		Registrations: a.Repos.Registrations,
		Hypotheses:    a.Repos.Hypotheses,
		Funnel:        a.Repos.Funnel,
		Transfer:      a.Repos.Transfer,
	}, a.Metrics, analytics.Options{CacheSize: cfg.CacheSize})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return a, nil
}

// newMetrics returns the OTLP exporter when it is enabled. Failing to reach
// the collector degrades to a no-op exporter.
func newMetrics(ctx context.Context, cfg *config.Config) ports.MetricsExporter {
	if !cfg.Otel.Enabled {
		return otel.NewNoOpExporter()
	}
	exp, err := otel.NewExporter(ctx, otel.ConfigFrom(cfg.Otel))
	if err != nil {
		log.WithError(err).Warn("metrics export disabled")
		return otel.NewNoOpExporter()
	}
	return exp
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.Metrics != nil {
		if err := a.Metrics.Close(context.Background()); err != nil {
			log.WithError(err).Warn("failed to flush metrics")
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
