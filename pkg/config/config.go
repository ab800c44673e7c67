package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Provider struct {
		Default         string `yaml:"default"`
		AlphaVantageKey string `yaml:"alpha_vantage_api_key"`
	} `yaml:"provider"`
	Fetch struct {
		MaxAttempts       int           `yaml:"max_attempts"`
		AttemptTimeout    time.Duration `yaml:"attempt_timeout"`
		JitterMin         time.Duration `yaml:"jitter_min"`
		JitterMax         time.Duration `yaml:"jitter_max"`
		RateLimitCooldown time.Duration `yaml:"rate_limit_cooldown"`
	} `yaml:"fetch"`
	Cache struct {
		Backend   string        `yaml:"backend"` // memory or redis
		QuoteTTL  time.Duration `yaml:"quote_ttl"`
		SeriesTTL time.Duration `yaml:"series_ttl"`
		Redis     struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider.Default = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		c.Provider.AlphaVantageKey = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Provider.Default == "" {
		c.Provider.Default = "yahoo"
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = 3
	}
	if c.Fetch.AttemptTimeout == 0 {
		c.Fetch.AttemptTimeout = 10 * time.Second
	}
	if c.Fetch.JitterMin == 0 {
		c.Fetch.JitterMin = 500 * time.Millisecond
	}
	if c.Fetch.JitterMax == 0 {
		c.Fetch.JitterMax = 2 * time.Second
	}
	if c.Fetch.RateLimitCooldown == 0 {
		c.Fetch.RateLimitCooldown = 5 * time.Second
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.QuoteTTL == 0 {
		c.Cache.QuoteTTL = 30 * time.Second
	}
	if c.Cache.SeriesTTL == 0 {
		c.Cache.SeriesTTL = 5 * time.Minute
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Provider.Default {
	case "yahoo", "fmp", "alphavantage":
	default:
		return fmt.Errorf("provider.default must be 'yahoo', 'fmp' or 'alphavantage', got '%s'", c.Provider.Default)
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Fetch.MaxAttempts < 1 {
		return fmt.Errorf("fetch.max_attempts must be at least 1")
	}
	if c.Fetch.JitterMax < c.Fetch.JitterMin {
		return fmt.Errorf("fetch.jitter_max must be >= fetch.jitter_min")
	}
	return nil
}
