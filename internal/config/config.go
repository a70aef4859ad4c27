// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Search  SearchConfig  `mapstructure:"search"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SearchConfig carries the free-text search inputs and optional explicit
// start URLs.
type SearchConfig struct {
	Keyword       string   `mapstructure:"keyword"`
	Location      string   `mapstructure:"location"`
	Category      string   `mapstructure:"category"`
	Experience    string   `mapstructure:"experience"`
	Qualification string   `mapstructure:"qualification"`
	StartURLs     []string `mapstructure:"start_urls"`
}

// CrawlConfig bounds a crawl run. ResultsWanted <= 0 means unbounded.
type CrawlConfig struct {
	ResultsWanted  int  `mapstructure:"results_wanted"`
	MaxPages       int  `mapstructure:"max_pages"`
	CollectDetails bool `mapstructure:"collect_details"`
}

// FetchConfig governs the fetch engine.
type FetchConfig struct {
	AllowedDomains []string `mapstructure:"allowed_domains"`
	Concurrency    int      `mapstructure:"concurrency"`
	MaxRetries     int      `mapstructure:"max_retries"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	DelayMs        int      `mapstructure:"delay_ms"`
	Proxies        []string `mapstructure:"proxies"`
}

// SinkConfig selects and configures the record sink.
type SinkConfig struct {
	Kind  string `mapstructure:"kind"`
	Path  string `mapstructure:"path"`
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// ServerConfig controls the optional status HTTP server.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBSWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.results_wanted", 100)
	v.SetDefault("crawl.max_pages", 50)
	v.SetDefault("crawl.collect_details", true)
	v.SetDefault("fetch.allowed_domains", []string{"www.freshersworld.com", "freshersworld.com"})
	v.SetDefault("fetch.concurrency", 10)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.timeout_seconds", 60)
	v.SetDefault("fetch.delay_ms", 500)
	v.SetDefault("sink.kind", "jsonl")
	v.SetDefault("sink.path", "out/jobs.jsonl")
	v.SetDefault("sink.table", "job_records")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Crawl.MaxPages <= 0 {
		return fmt.Errorf("crawl.max_pages must be > 0")
	}
	if c.Fetch.Concurrency <= 0 {
		return fmt.Errorf("fetch.concurrency must be > 0")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must be >= 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	switch c.Sink.Kind {
	case "jsonl":
		if c.Sink.Path == "" {
			return fmt.Errorf("sink.path must be set for the jsonl sink")
		}
	case "postgres":
		if c.Sink.DSN == "" {
			return fmt.Errorf("sink.dsn must be set for the postgres sink")
		}
	default:
		return fmt.Errorf("sink.kind must be jsonl or postgres, got %q", c.Sink.Kind)
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0 when the server is enabled")
	}
	return nil
}

// RequestTimeout converts the fetch timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// FetchDelay converts the per-request delay into a duration.
func (c Config) FetchDelay() time.Duration {
	return time.Duration(c.Fetch.DelayMs) * time.Millisecond
}
