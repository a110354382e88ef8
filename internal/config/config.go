package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"msascore/internal/scoring"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Engine   EngineConfig   `yaml:"engine" envconfig:"ENGINE"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// EngineConfig carries the scoring engine defaults: winsorization bounds,
// display bucket thresholds, risk multiplier policy, missing-data mode and
// the batch fan-out limit.
type EngineConfig struct {
	PLow           float64   `yaml:"p_low" envconfig:"P_LOW"`
	PHigh          float64   `yaml:"p_high" envconfig:"P_HIGH"`
	Thresholds     []float64 `yaml:"thresholds" envconfig:"THRESHOLDS"`
	RiskMin        float64   `yaml:"risk_min" envconfig:"RISK_MIN"`
	RiskMax        float64   `yaml:"risk_max" envconfig:"RISK_MAX"`
	RiskStrict     bool      `yaml:"risk_strict" envconfig:"RISK_STRICT"`
	MissingMode    string    `yaml:"missing_mode" envconfig:"MISSING_MODE"`
	MaxConcurrency int       `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY"`
}

// ExportConfig contains export output configuration
type ExportConfig struct {
	OutDir string `yaml:"out_dir" envconfig:"OUT_DIR"`
}

// Load loads configuration: defaults first, then the YAML file at path (when
// non-empty and present), then MSASCORE_* environment variables on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("MSASCORE", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if !c.NormalizationParams().IsValid() {
		return fmt.Errorf("invalid winsorization bounds: p_low=%.3f, p_high=%.3f", c.Engine.PLow, c.Engine.PHigh)
	}
	if err := scoring.ValidateThresholds(c.Engine.Thresholds); err != nil {
		return fmt.Errorf("bucket thresholds: %w", err)
	}
	if !c.RiskPolicy().IsValid() {
		return fmt.Errorf("invalid risk range: min=%.3f, max=%.3f", c.Engine.RiskMin, c.Engine.RiskMax)
	}
	if _, err := scoring.ParseMissingMode(c.Engine.MissingMode); err != nil {
		return fmt.Errorf("missing mode: %w", err)
	}
	if c.Engine.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive")
	}

	return nil
}

// NormalizationParams returns the engine winsorization bounds.
func (c *Config) NormalizationParams() scoring.NormalizationParams {
	return scoring.NormalizationParams{PLow: c.Engine.PLow, PHigh: c.Engine.PHigh}
}

// RiskPolicy returns the configured risk multiplier policy.
func (c *Config) RiskPolicy() scoring.RiskPolicy {
	return scoring.RiskPolicy{Min: c.Engine.RiskMin, Max: c.Engine.RiskMax, Strict: c.Engine.RiskStrict}
}

// MissingMode returns the configured missing-data aggregation mode. Validate
// has already rejected unknown values.
func (c *Config) MissingMode() scoring.MissingMode {
	mode, _ := scoring.ParseMissingMode(c.Engine.MissingMode)
	return mode
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Engine: EngineConfig{
			PLow:           scoring.DefaultLowerBound,
			PHigh:          scoring.DefaultUpperBound,
			Thresholds:     scoring.DefaultThresholds(),
			RiskMin:        0.5,
			RiskMax:        2.0,
			RiskStrict:     false,
			MissingMode:    "strict",
			MaxConcurrency: 4,
		},
		Export: ExportConfig{
			OutDir: "out",
		},
	}
}
