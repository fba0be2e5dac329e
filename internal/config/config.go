// Package config loads solver settings from defaults, an optional TOML file
// and WIKIRACE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"wikirace-go-solver/internal/crawler"
	"wikirace-go-solver/internal/search"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Duration lets TOML files spell intervals as "200ms" or "20s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type Config struct {
	BaseURL       string   `toml:"base_url"`
	UserAgent     string   `toml:"user_agent"`
	CacheDir      string   `toml:"cache_dir"`
	MemoryEntries int      `toml:"memory_entries"`
	Delay         Duration `toml:"delay"`
	Timeout       Duration `toml:"timeout"`
	DialTimeout   Duration `toml:"dial_timeout"`
	MaxBodyBytes  int64    `toml:"max_body_bytes"`
	MaxExpansions int      `toml:"max_expansions"`
	Workers       int      `toml:"workers"`
	LogLevel      string   `toml:"log_level"`
	LogJSON       bool     `toml:"log_json"`
	ListenAddr    string   `toml:"listen_addr"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		BaseURL:       crawler.DefaultBaseURL,
		UserAgent:     crawler.DefaultUserAgent,
		CacheDir:      ".wiki_cache",
		MemoryEntries: 256,
		Delay:         Duration{200 * time.Millisecond},
		Timeout:       Duration{20 * time.Second},
		DialTimeout:   Duration{5 * time.Second},
		MaxBodyBytes:  10 * 1024 * 1024,
		MaxExpansions: search.DefaultMaxExpansions,
		Workers:       1,
		LogLevel:      "info",
		ListenAddr:    ":8080",
	}
}

// Load applies the TOML file at path (skipped when empty) and then the
// environment on top of the defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BaseURL = getEnv("WIKIRACE_BASE_URL", c.BaseURL)
	c.UserAgent = getEnv("WIKIRACE_USER_AGENT", c.UserAgent)
	c.CacheDir = getEnv("WIKIRACE_CACHE_DIR", c.CacheDir)
	c.MemoryEntries = getEnvAsInt("WIKIRACE_MEMORY_ENTRIES", c.MemoryEntries)
	c.Delay.Duration = getEnvAsDuration("WIKIRACE_DELAY", c.Delay.Duration)
	c.Timeout.Duration = getEnvAsDuration("WIKIRACE_TIMEOUT", c.Timeout.Duration)
	c.MaxExpansions = getEnvAsInt("WIKIRACE_MAX_EXPANSIONS", c.MaxExpansions)
	c.Workers = getEnvAsInt("WIKIRACE_WORKERS", c.Workers)
	c.LogLevel = getEnv("WIKIRACE_LOG_LEVEL", c.LogLevel)
	c.LogJSON = getEnv("WIKIRACE_LOG_JSON", strconv.FormatBool(c.LogJSON)) == "true"
	c.ListenAddr = getEnv("WIKIRACE_LISTEN_ADDR", c.ListenAddr)
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base_url is required", ErrInvalidConfig)
	case c.CacheDir == "":
		return fmt.Errorf("%w: cache_dir is required", ErrInvalidConfig)
	case c.Delay.Duration < 0:
		return fmt.Errorf("%w: delay must not be negative", ErrInvalidConfig)
	case c.Timeout.Duration <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.MaxExpansions <= 0:
		return fmt.Errorf("%w: max_expansions must be positive", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
