// Package config loads licensetower settings from a TOML file.
//
// The file is looked up in this order:
//
//  1. the path passed on the command line (--config)
//  2. $LICENSETOWER_CONFIG
//  3. ~/.config/licensetower/config.toml
//
// A missing file is not an error: every setting has a default, and a
// partially filled file only overrides what it names.
//
//	[registry]
//	url = "https://pypi.org/pypi"
//	retries = 3
//	timeout = "10s"
//	backoff = "250ms"
//	concurrency = 4
//
//	[cache]
//	backend = "file"   # memory, file, redis, none
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
//	[[aliases]]
//	canonical = "Apache Software License"
//	variants = ["Apache 2.0", "Apache-2.0", "Apache License 2.0"]
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/licensetower/pkg/cache"
	errs "github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/integrations"
	"github.com/matzehuels/licensetower/pkg/integrations/pypi"
	"github.com/matzehuels/licensetower/pkg/license"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "LICENSETOWER_CONFIG"

// Cache backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Duration is a time.Duration read from a TOML string such as "250ms".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds all application configuration.
type Config struct {
	Registry RegistryConfig     `toml:"registry"`
	Cache    CacheConfig        `toml:"cache"`
	Server   ServerConfig       `toml:"server"`
	Aliases  license.AliasTable `toml:"aliases"`
}

// RegistryConfig holds license registry settings.
type RegistryConfig struct {
	URL         string   `toml:"url"`
	Retries     int      `toml:"retries"`
	Timeout     Duration `toml:"timeout"`
	Backoff     Duration `toml:"backoff"`
	Concurrency int      `toml:"concurrency"`
}

// CacheConfig selects where license lookups are memoized.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	SessionDir    string `toml:"session_dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			URL:         pypi.DefaultBaseURL,
			Retries:     license.DefaultRetries,
			Timeout:     Duration{10 * time.Second},
			Backoff:     Duration{250 * time.Millisecond},
			Concurrency: 4,
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       Duration{24 * time.Hour},
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MongoDatabase: "licensetower",
		},
	}
}

// Path resolves the config file location. flagPath wins over the
// environment, which wins over the per-user default.
func Path(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "licensetower", "config.toml"), nil
}

// Load reads the config file resolved by [Path] over the defaults. A missing
// file yields the defaults; a file that exists but does not parse or
// validate is an error.
func Load(flagPath string) (*Config, error) {
	cfg := Default()
	path, err := Path(flagPath)
	if err != nil {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := errs.ValidateURL(c.Registry.URL); err != nil {
		return fmt.Errorf("registry.url: %w", err)
	}
	if c.Registry.Retries < 1 {
		return fmt.Errorf("registry.retries must be at least 1")
	}
	if c.Registry.Concurrency < 1 {
		return fmt.Errorf("registry.concurrency must be at least 1")
	}
	switch c.Cache.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("cache.backend must be one of memory, file, redis, none: %q", c.Cache.Backend)
	}
	for _, a := range c.Aliases {
		if a.Canonical == "" || len(a.Variants) == 0 {
			return fmt.Errorf("aliases: entry needs a canonical name and at least one variant")
		}
	}
	return nil
}

// OpenCache creates the configured cache backend. The caller owns the
// returned cache and must close it.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendMemory:
		return cache.NewMemoryCache(), nil
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   c.RedisAddr,
			DB:     c.RedisDB,
			Prefix: "licensetower:",
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(c.Dir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		return fc, nil
	}
}

// NewClient creates the registry client described by the registry section,
// memoizing into backend.
func (c *Config) NewClient(backend cache.Cache) *pypi.Client {
	return pypi.NewClient(backend, c.Cache.TTL.Duration,
		pypi.WithBaseURL(c.Registry.URL),
		pypi.WithHTTPClient(integrations.NewHTTPClient(c.Registry.Timeout.Duration)),
		pypi.WithBackoff(c.Registry.Backoff.Duration),
	)
}
