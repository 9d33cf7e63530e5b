// Package config loads jengatower settings from a TOML file.
//
// Every field has a default, so a missing file is not an error unless the
// path was given explicitly:
//
//	[osv]
//	endpoint = "https://api.osv.dev/v1/query"
//	timeout = "10s"
//
//	[github]
//	raw_base_url = "https://raw.githubusercontent.com"
//	branches = ["main", "master"]
//
//	[cache]
//	backend = "file"        # file, memory, redis, mongo, none
//	ttl = "1h"
//
//	[server]
//	addr = ":8080"
//	cache_backend = "memory"
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jengatower/pkg/cache"
	"github.com/matzehuels/jengatower/pkg/integrations/github"
	"github.com/matzehuels/jengatower/pkg/integrations/osv"
)

const appName = "jengatower"

// Cache backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

var backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}

// Duration is a time.Duration written as a string ("10s", "1h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full configuration.
type Config struct {
	OSV    OSVConfig    `toml:"osv"`
	GitHub GitHubConfig `toml:"github"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// OSVConfig configures advisory lookups.
type OSVConfig struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

// GitHubConfig configures manifest fetches.
type GitHubConfig struct {
	RawBaseURL string   `toml:"raw_base_url"`
	Branches   []string `toml:"branches"`
	Timeout    Duration `toml:"timeout"`
}

// CacheConfig selects and configures the advisory cache.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	TTL     Duration `toml:"ttl"`
	Dir     string   `toml:"dir"`
	// Prefix scopes every key, so several deployments can share one store.
	Prefix string `toml:"prefix"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
	// CacheBackend replaces cache.backend for the server, which defaults to
	// an in-process cache instead of the CLI's file cache.
	CacheBackend string `toml:"cache_backend"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		OSV: OSVConfig{
			Endpoint: osv.DefaultEndpoint,
			Timeout:  Duration{10 * time.Second},
		},
		GitHub: GitHubConfig{
			RawBaseURL: github.DefaultRawBaseURL,
			Branches:   slices.Clone(github.DefaultBranches),
			Timeout:    Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			Backend:         BackendFile,
			TTL:             Duration{cache.TTLAdvisory},
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "advisory_cache",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{2 * time.Minute},
			MaxBodyBytes: 1 << 20,
			CacheBackend: BackendMemory,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/jengatower/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/jengatower, falling back to
// ~/.cache.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config at path over the defaults. An empty path loads
// [DefaultPath] and tolerates its absence; an explicit path must exist.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	if err := validateURL("osv.endpoint", c.OSV.Endpoint); err != nil {
		return err
	}
	if err := validateURL("github.raw_base_url", c.GitHub.RawBaseURL); err != nil {
		return err
	}
	if len(c.GitHub.Branches) == 0 {
		return errors.New("github.branches must not be empty")
	}
	for name, d := range map[string]Duration{
		"osv.timeout":          c.OSV.Timeout,
		"github.timeout":       c.GitHub.Timeout,
		"cache.ttl":            c.Cache.TTL,
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
	} {
		if d.Duration <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return fmt.Errorf("cache.backend %q is not one of %s", c.Cache.Backend, strings.Join(backends, ", "))
	}
	if !slices.Contains(backends, c.Server.CacheBackend) {
		return fmt.Errorf("server.cache_backend %q is not one of %s", c.Server.CacheBackend, strings.Join(backends, ", "))
	}
	if err := c.Cache.validateBackend(c.Cache.Backend); err != nil {
		return err
	}
	if err := c.Cache.validateBackend(c.Server.CacheBackend); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}
	return nil
}

// ServerCache returns the cache settings the server runs with.
func (c *Config) ServerCache() CacheConfig {
	cc := c.Cache
	cc.Backend = c.Server.CacheBackend
	return cc
}

func (c CacheConfig) validateBackend(backend string) error {
	switch backend {
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" || c.MongoCollection == "" {
			return errors.New("cache.mongo_uri, mongo_database and mongo_collection are required for the mongo backend")
		}
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	return nil
}
