// Package config loads taxmagick settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/taxmagick/config.toml (falling back to
// ~/.config) unless a path is given explicitly. A missing file is not an
// error: every field has a default, and command-line flags override
// whatever the file sets.
//
//	url = "https://ftp.ncbi.nlm.nih.gov/pub/taxonomy/taxdump.tar.gz"
//	name_class = "scientific name"
//	root = "1"
//
//	[cache]
//	ttl = "168h"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/taxmagick/taxmagick/pkg/source"
	"github.com/taxmagick/taxmagick/pkg/taxdump"
)

// AppName names the config and cache directories.
const AppName = "taxmagick"

// Config is the parsed configuration file.
type Config struct {
	URL       string `toml:"url"`
	NameClass string `toml:"name_class"`
	Root      string `toml:"root"`

	Cache  Cache  `toml:"cache"`
	S3     S3     `toml:"s3"`
	Mongo  Mongo  `toml:"mongo"`
	Server Server `toml:"server"`
}

// Cache configures where downloaded archives and their metadata live.
type Cache struct {
	Dir string `toml:"dir"`
	// TTL is a Go duration string such as "168h".
	TTL string `toml:"ttl"`
	// RedisAddr, when set, stores archive metadata in Redis instead of
	// files. Prefix scopes the keys.
	RedisAddr   string `toml:"redis_addr"`
	RedisPrefix string `toml:"redis_prefix"`
}

// S3 configures s3:// sources.
type S3 struct {
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

// Mongo names the collection lineages are exported to.
type Mongo struct {
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		URL:       source.DefaultURL,
		NameClass: taxdump.DefaultNameClass,
		Root:      "1",
		Cache:     Cache{TTL: source.DefaultTTL.String()},
		S3:        S3{Region: "us-east-1"},
		Mongo:     Mongo{Database: AppName, Collection: "lineages"},
		Server:    Server{Addr: ":8080"},
	}
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath]; a missing default file yields the defaults, while a
// missing explicit file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks values the TOML decoder cannot.
func (c Config) Validate() error {
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Root == "" {
		return errors.New("config: root cannot be empty")
	}
	return nil
}

// CacheTTL parses Cache.TTL. An empty value means [source.DefaultTTL].
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return source.DefaultTTL, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("config: cache.ttl: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: cache.ttl must not be negative: %s", c.Cache.TTL)
	}
	return d, nil
}

// CacheDir returns Cache.Dir, or the XDG cache directory when unset.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// DefaultPath returns $XDG_CONFIG_HOME/taxmagick/config.toml.
func DefaultPath() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/taxmagick.
func DefaultCacheDir() (string, error) {
	return xdgPath("XDG_CACHE_HOME", ".cache", "")
}

func xdgPath(env, fallback, file string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, AppName, file), nil
}
