// Package config loads wlrsim settings.
//
// Settings are layered, later layers winning:
//
//  1. Built-in defaults (seed 0, 10×6 in, svg)
//  2. TOML file: --config, or $XDG_CONFIG_HOME/wlrsim/config.toml
//  3. A .env file in the working directory
//  4. WLRSIM_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Example config.toml:
//
//	seed = 0
//	formats = ["svg", "png"]
//	log_level = "info"
//
//	[params]
//	h = 10.0
//	alpha = 0.5
//	hypertrophia = true
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/wlrsim/pkg/errors"
	"github.com/matzehuels/wlrsim/pkg/model"
	"github.com/matzehuels/wlrsim/pkg/pipeline"
)

const (
	appName = "wlrsim"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "WLRSIM_"

	// DefaultAddr is the default listen address of `wlrsim serve`.
	DefaultAddr = "127.0.0.1:8080"
)

// Config holds every setting.
type Config struct {
	Seed     uint64   `toml:"seed"`
	Width    float64  `toml:"width"`
	Height   float64  `toml:"height"`
	DPI      int      `toml:"dpi"`
	Formats  []string `toml:"formats"`
	LogLevel string   `toml:"log_level"`

	// Params are the initial slider and checkbox values.
	Params model.Params `toml:"params"`

	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`

	// Source is the config file that was read, if any.
	Source string `toml:"-"`
}

// ServerConfig configures `wlrsim serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects the artifact cache backend. RedisURL wins over Dir.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
	Disabled bool   `toml:"disabled"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Seed:     pipeline.DefaultSeed,
		Width:    pipeline.DefaultWidth,
		Height:   pipeline.DefaultHeight,
		DPI:      pipeline.DefaultDPI,
		Formats:  []string{pipeline.FormatSVG},
		LogLevel: "info",
		Params:   model.DefaultParams(),
		Server:   ServerConfig{Addr: DefaultAddr},
	}
}

// Loader reads configuration from a file, a .env file and the environment.
type Loader struct {
	// Path is the config file. Empty means [DefaultPath], which may be
	// missing; an explicit path must exist.
	Path string
	// EnvFile is a dotenv file read if present. Empty skips it.
	EnvFile string
	// LookupEnv reads the process environment. Nil skips it.
	LookupEnv func(string) (string, bool)
}

// Load reads path (or the default location), ./.env and the process
// environment.
func Load(path string) (*Config, error) {
	return Loader{Path: path, EnvFile: ".env", LookupEnv: os.LookupEnv}.Load()
}

// Load applies every layer and validates the result.
func (l Loader) Load() (*Config, error) {
	cfg := Default()

	path, explicit := l.Path, l.Path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.readFile(path, explicit); err != nil {
			return nil, err
		}
	}

	env := map[string]string{}
	if l.EnvFile != "" {
		dotenv, err := godotenv.Read(l.EnvFile)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", l.EnvFile)
		}
		for k, v := range dotenv {
			env[k] = v
		}
	}
	lookup := func(key string) (string, bool) {
		if l.LookupEnv != nil {
			if v, ok := l.LookupEnv(key); ok {
				return v, true
			}
		}
		v, ok := env[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) readFile(path string, explicit bool) error {
	md, err := toml.DecodeFile(path, c)
	if os.IsNotExist(err) && !explicit {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	parse := func(name string, set func(string) error) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		if err := set(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s=%q", EnvPrefix, name, v)
		}
		return nil
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("ADDR", &c.Server.Addr)
	str("CACHE_DIR", &c.Cache.Dir)
	str("REDIS_URL", &c.Cache.RedisURL)
	str("CACHE_PREFIX", &c.Cache.Prefix)
	if v, ok := lookup(EnvPrefix + "FORMATS"); ok {
		c.Formats = SplitList(v)
	}

	return firstErr(
		parse("SEED", func(v string) (err error) { c.Seed, err = strconv.ParseUint(v, 10, 64); return }),
		parse("WIDTH", func(v string) (err error) { c.Width, err = strconv.ParseFloat(v, 64); return }),
		parse("HEIGHT", func(v string) (err error) { c.Height, err = strconv.ParseFloat(v, 64); return }),
		parse("DPI", func(v string) (err error) { c.DPI, err = strconv.Atoi(v); return }),
		parse("NO_CACHE", func(v string) (err error) { c.Cache.Disabled, err = strconv.ParseBool(v); return }),
	)
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	opts := c.PipelineOptions()
	opts.SetRenderDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Cache.RedisURL != "" {
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, errors.Wrap(errors.ErrCodeInvalidConfig, err, "log_level")
	}
	return lvl, nil
}

// PipelineOptions returns pipeline options seeded from the config.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Params:  c.Params,
		Seed:    c.Seed,
		Formats: append([]string(nil), c.Formats...),
		Width:   c.Width,
		Height:  c.Height,
		DPI:     c.DPI,
	}
}

// CacheDir returns the file cache directory, defaulting to [DefaultCacheDir].
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// DefaultPath returns $XDG_CONFIG_HOME/wlrsim/config.toml
// (~/.config/wlrsim/config.toml when unset).
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/wlrsim (~/.cache/wlrsim when unset).
func DefaultCacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
