package otel

import (
	"github.com/elchristog/marketing-funnels-gestor/internal/infrastructure/config"
)

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// ConfigFrom extracts the exporter settings from the application config.
func ConfigFrom(cfg config.Otel) Config {
	return Config{
		Endpoint: cfg.Endpoint,
		Enabled:  cfg.Enabled,
		Insecure: cfg.Insecure,
	}
}
