package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/elchristog/marketing-funnels-gestor/internal/util"
)

// Prefix is prepended to every environment variable name.
const Prefix = "MFUNNEL"

// Database selects the store. URL wins over Path when both are set.
type Database struct {
	Path      string `envconfig:"DATABASE_PATH"`
	URL       string `envconfig:"DATABASE_URL"`
	AuthToken string `envconfig:"AUTH_TOKEN"`
}

// Log holds logrus settings.
type Log struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Otel holds the OTLP metrics exporter settings.
type Otel struct {
	Enabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	Endpoint string `envconfig:"OTEL_ENDPOINT"`
	Insecure bool   `envconfig:"OTEL_INSECURE" default:"false"`
}

// Config is the full application configuration. The nested groups are
// processed on their own so their variables keep the flat MFUNNEL_ names.
type Config struct {
	Database        Database      `ignored:"true"`
	Log             Log           `ignored:"true"`
	Otel            Otel          `ignored:"true"`
	Port            int           `envconfig:"PORT" default:"8080"`
	CacheSize       int           `envconfig:"CACHE_SIZE" default:"64"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// Load reads the configuration from MFUNNEL_* environment variables and
// fills in the default database location.
func Load() (*Config, error) {
	var cfg Config
	for _, spec := range []interface{}{&cfg, &cfg.Database, &cfg.Log, &cfg.Otel} {
		if err := envconfig.Process(Prefix, spec); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	if cfg.Database.Path == "" && cfg.Database.URL == "" {
		dataDir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		cfg.Database.Path = filepath.Join(dataDir, "funnels.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size must not be negative, got %d", c.CacheSize)
	}
	if c.Otel.Enabled && c.Otel.Endpoint == "" {
		return fmt.Errorf("%s_OTEL_ENDPOINT is required when metrics export is enabled", Prefix)
	}
	return nil
}
