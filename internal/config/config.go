package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Hermes    HermesConfig    `yaml:"hermes"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Cache     CacheConfig     `yaml:"cache"`
	Retention RetentionConfig `yaml:"retention"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port              int      `yaml:"port"`
	MetricsPort       int      `yaml:"metrics_port"`
	AdminToken        string   `yaml:"admin_token"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
}

// DatabaseConfig selects the assessment store. Driver is "sqlite" or
// "postgres"; an empty URL with the sqlite driver uses a local file.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type AnalyzerConfig struct {
	URL       string `yaml:"url"`
	Token     string `yaml:"token"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type ScoringConfig struct {
	TopRecommendations int `yaml:"top_recommendations"`
}

type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

type RetentionConfig struct {
	MaxAgeHours          int `yaml:"max_age_hours"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) AnalyzerTimeout() time.Duration {
	return time.Duration(c.Analyzer.TimeoutMs) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) RetentionMaxAge() time.Duration {
	return time.Duration(c.Retention.MaxAgeHours) * time.Hour
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Retention.SweepIntervalMinutes) * time.Minute
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			AllowedOrigins:    []string{"http://localhost:8080"},
			RequestsPerMinute: 120,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Analyzer: AnalyzerConfig{
			URL:       "http://localhost:8000/analyze",
			TimeoutMs: 30000,
		},
		Scoring: ScoringConfig{
			TopRecommendations: 3,
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		Retention: RetentionConfig{
			MaxAgeHours:          720,
			SweepIntervalMinutes: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		return fmt.Errorf("database url required for postgres")
	}
	if c.Analyzer.TimeoutMs < 0 {
		return fmt.Errorf("analyzer timeout must not be negative")
	}
	if c.Scoring.TopRecommendations < 0 {
		return fmt.Errorf("scoring top_recommendations must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RETROFIT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("RETROFIT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("RETROFIT_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("RETROFIT_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RETROFIT_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("RETROFIT_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("RETROFIT_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("RETROFIT_ANALYZER_URL"); v != "" {
		cfg.Analyzer.URL = v
	}
	if v := os.Getenv("RETROFIT_ANALYZER_TOKEN"); v != "" {
		cfg.Analyzer.Token = v
	}
	if v := os.Getenv("RETROFIT_ANALYZER_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analyzer.TimeoutMs = n
		}
	}
	if v := os.Getenv("RETROFIT_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLSeconds = n
		}
	}
	if v := os.Getenv("RETROFIT_RETENTION_MAX_AGE_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retention.MaxAgeHours = n
		}
	}
	if v := os.Getenv("RETROFIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
