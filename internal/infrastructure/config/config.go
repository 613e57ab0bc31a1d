package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/paysentinel/fraud-detection-backend/internal/service/scoring"
)

// envPrefix scopes environment overrides, e.g. FDS_SERVER_PORT=9000.
const envPrefix = "FDS_"

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Scoring   ScoringConfig   `koanf:"scoring"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL      string `koanf:"url"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	// DashboardTTL bounds how stale cached analytics may be.
	DashboardTTL time.Duration `koanf:"dashboard_ttl"`
}

// ScoringConfig tunes the risk pipeline. Weights must sum to 1.0; the
// scoring service rejects the config at startup otherwise. ReferenceStats
// feeds the deviation model and defaults to the hand-tuned distribution.
type ScoringConfig struct {
	Weights                 WeightsConfig          `koanf:"weights"`
	ReferenceStats          scoring.ReferenceStats `koanf:"reference_stats"`
	HighRiskCountries       []string               `koanf:"high_risk_countries"`
	TrackerCapacityPerShard int                    `koanf:"tracker_capacity_per_shard"`
}

type WeightsConfig struct {
	AmountVelocity float64 `koanf:"amount_velocity"`
	Deviation      float64 `koanf:"deviation"`
	RuleBased      float64 `koanf:"rule_based"`
	DeviceSharing  float64 `koanf:"device_sharing"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `koanf:"requests_per_second"`
	BurstSize         int `koanf:"burst_size"`
}

type TelemetryConfig struct {
	ServiceName  string `koanf:"service_name"`
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	Enabled      bool   `koanf:"enabled"`
}

// Load builds the configuration from three layers: compiled-in defaults,
// an optional YAML file, then environment variables with the FDS_ prefix.
// Later layers win.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() *Config {
	return &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             "postgres://localhost:5432/fraud_detection?sslmode=disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          "localhost:6379",
			DB:           0,
			DashboardTTL: 30 * time.Second,
		},
		Scoring: ScoringConfig{
			Weights: WeightsConfig{
				AmountVelocity: 0.40,
				Deviation:      0.25,
				RuleBased:      0.20,
				DeviceSharing:  0.15,
			},
			ReferenceStats:          scoring.DefaultReferenceStats(),
			HighRiskCountries:       []string{"NG", "RU", "CN", "PK"},
			TrackerCapacityPerShard: 32768,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			BurstSize:         200,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "fraud-detection-backend",
			Enabled:     false,
		},
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	sum := c.Scoring.Weights.AmountVelocity + c.Scoring.Weights.Deviation +
		c.Scoring.Weights.RuleBased + c.Scoring.Weights.DeviceSharing
	if sum < 0.999999999 || sum > 1.000000001 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	for i, sd := range c.Scoring.ReferenceStats.StdDev {
		if sd < 0 {
			return fmt.Errorf("reference std_dev[%d] must be non-negative, got %v", i, sd)
		}
	}
	return nil
}

// IsProduction reports whether the service runs in the production
// environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
