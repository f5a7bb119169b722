package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	RateLimit    int `mapstructure:"rate_limit"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig configures Postgres. When disabled the API keeps bookings
// and payments in memory.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Prefix  string `mapstructure:"prefix"`
}

type TemporalConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// SimulationConfig tunes the simulated delays and the tracking animation.
type SimulationConfig struct {
	SearchLatency    time.Duration `mapstructure:"search_latency"`
	TrackLatency     time.Duration `mapstructure:"track_latency"`
	TrackingInterval time.Duration `mapstructure:"tracking_interval"`
	TrackingStep     float64       `mapstructure:"tracking_step"`
	TrackingStart    float64       `mapstructure:"tracking_start"`
	PaymentDelay     time.Duration `mapstructure:"payment_delay"`
	BannerTTL        time.Duration `mapstructure:"banner_ttl"`
	BannerCapacity   int           `mapstructure:"banner_capacity"`
}

// Load reads configuration from .env, the config file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env", "error", err)
	}

	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: YATRA_DATABASE_HOST → database.host
	v.SetEnvPrefix("YATRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "yatra")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "yatra")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 50)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.prefix", "yatra:")
	v.SetDefault("temporal.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("simulation.search_latency", "1.5s")
	v.SetDefault("simulation.track_latency", "1.5s")
	v.SetDefault("simulation.tracking_interval", "3s")
	v.SetDefault("simulation.tracking_step", 0.01)
	v.SetDefault("simulation.tracking_start", 0.65)
	v.SetDefault("simulation.payment_delay", "3s")
	v.SetDefault("simulation.banner_ttl", "5s")
	v.SetDefault("simulation.banner_capacity", 8)
}

// Validate checks that required configuration fields are present and sane.
// Connection settings are only checked for enabled backends.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RateLimit <= 0 {
		errs = append(errs, "server.rate_limit must be positive")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Temporal.Enabled {
		if c.Temporal.HostPort == "" {
			errs = append(errs, "temporal.host_port is required")
		}
		// the worker settles payments in its own process
		if !c.Database.Enabled {
			errs = append(errs, "temporal.enabled requires database.enabled")
		}
	}

	s := c.Simulation
	if s.SearchLatency < 0 || s.TrackLatency < 0 || s.PaymentDelay < 0 {
		errs = append(errs, "simulation latencies must not be negative")
	}
	if s.TrackingInterval <= 0 {
		errs = append(errs, "simulation.tracking_interval must be positive")
	}
	if s.TrackingStep <= 0 || s.TrackingStep > 1 {
		errs = append(errs, fmt.Sprintf("simulation.tracking_step must be in (0, 1], got %g", s.TrackingStep))
	}
	if s.TrackingStart < 0 || s.TrackingStart > 1 {
		errs = append(errs, fmt.Sprintf("simulation.tracking_start must be in [0, 1], got %g", s.TrackingStart))
	}
	if s.BannerTTL <= 0 {
		errs = append(errs, "simulation.banner_ttl must be positive")
	}
	if s.BannerCapacity <= 0 {
		errs = append(errs, "simulation.banner_capacity must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
