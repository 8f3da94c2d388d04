package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// Rough per-pool footprint used to convert a memory budget into an
	// entry budget. A sizing hint, not exact accounting.
	ApproxPoolSizeBytes = 2048

	DefaultBatchSize            = 30
	DefaultMaxConcurrentBatches = 25
	DefaultCacheMaxEntries      = 10000
	DefaultNetwork              = "base"
)

// Config is the top-level configuration of the dexmetadata CLI and library.
type Config struct {
	Network string         `yaml:"network"`
	RPCURL  string         `yaml:"rpc_url"`
	Fetch   *FetchConfig   `yaml:"fetch"`
	Cache   *CacheConfig   `yaml:"cache"`
	Logger  *LoggerConfig  `yaml:"logger"`
	Metrics *MetricsConfig `yaml:"metrics"`
}

// FetchConfig controls batch partitioning and admission control.
type FetchConfig struct {
	BatchSize            int  `yaml:"batch_size"`
	MaxConcurrentBatches int  `yaml:"max_concurrent_batches"`
	ShowProgress         bool `yaml:"show_progress"`
}

// CacheConfig controls the pool metadata cache.
//
// MaxSizeMB, when positive, overrides MaxEntries using the approximate
// per-pool footprint.
type CacheConfig struct {
	Enabled    bool    `yaml:"enabled"`
	MaxEntries int     `yaml:"max_entries"`
	MaxSizeMB  float64 `yaml:"max_size_mb"`
	Persist    bool    `yaml:"persist"`
	Dir        string  `yaml:"dir"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// EffectiveMaxEntries resolves the entry budget, applying the memory budget
// override when present.
func (c *CacheConfig) EffectiveMaxEntries() int {
	if c.MaxSizeMB > 0 {
		return int(c.MaxSizeMB * 1024 * 1024 / ApproxPoolSizeBytes)
	}

	return c.MaxEntries
}

// EndpointURL returns the RPC URL, synthesizing the publicnode.com endpoint
// for the configured network when no explicit URL is set.
func (c *Config) EndpointURL() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}

	return fmt.Sprintf("https://%s-rpc.publicnode.com", c.Network)
}

func NewDefaultConfig() *Config {
	cfg := &Config{}
	fillConfigDefaults(cfg)

	return cfg
}

func NewConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	fillConfigDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func fillConfigDefaults(c *Config) {
	if c.Network == "" {
		c.Network = DefaultNetwork
	}

	if c.Fetch == nil {
		c.Fetch = &FetchConfig{ShowProgress: true}
	}

	if c.Fetch.BatchSize == 0 {
		c.Fetch.BatchSize = DefaultBatchSize
	}

	if c.Fetch.MaxConcurrentBatches == 0 {
		c.Fetch.MaxConcurrentBatches = DefaultMaxConcurrentBatches
	}

	if c.Cache == nil {
		c.Cache = &CacheConfig{Enabled: true}
	}

	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheMaxEntries
	}

	if c.Cache.Dir == "" {
		c.Cache.Dir = DefaultCacheDir()
	}

	if c.Logger == nil {
		c.Logger = &LoggerConfig{Level: "info"}
	}
}

func (c *Config) validate() error {
	if c.Fetch.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.Fetch.BatchSize)
	}

	if c.Fetch.MaxConcurrentBatches <= 0 {
		return fmt.Errorf("max_concurrent_batches must be positive, got %d", c.Fetch.MaxConcurrentBatches)
	}

	if c.Cache.EffectiveMaxEntries() <= 0 {
		return errors.New("cache entry budget must be positive")
	}

	return nil
}

// DefaultCacheDir returns the per-user cache directory.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dexmetadata_cache"
	}

	return filepath.Join(home, ".dexmetadata_cache")
}
