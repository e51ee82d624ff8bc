// Package config loads meteo's configuration.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file (--config, or ~/.config/meteo/config.toml when present)
//  3. Environment variables, after .env and .env.local have been loaded
//
// The result is validated with struct tags before use:
//
//	cfg, err := config.Load(path)
//	c, err := cfg.OpenCache(ctx)
//	src := dataset.NewSource(cfg.SourceOptions(st, c))
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	merrors "github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/planner"
	"github.com/meteo-transit/meteo/pkg/route"
)

// DefaultAddr is the address the HTTP API listens on.
const DefaultAddr = ":3001"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Config is the complete meteo configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Search SearchConfig `toml:"search"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr" validate:"required"`
	CORSOrigins  []string      `toml:"cors_origins"`
	ReadTimeout  time.Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `toml:"write_timeout" validate:"gte=0"`
}

// DataConfig selects where the dataset comes from. File wins over URL,
// URL over Dataset; with none set the dataset is read from EnvVars.
type DataConfig struct {
	File    string   `toml:"file"`
	URL     string   `toml:"url" validate:"omitempty,url"`
	Dataset string   `toml:"dataset"`
	EnvVars []string `toml:"env_vars"`
}

// CacheConfig selects the byte cache used for fetched datasets and routes.
type CacheConfig struct {
	Backend       string `toml:"backend" validate:"oneof=none memory file redis"`
	Dir           string `toml:"dir"`
	MaxEntries    int    `toml:"max_entries" validate:"gte=0"`
	RedisAddr     string `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db" validate:"gte=0"`
	Prefix        string `toml:"prefix"`
	// Scope namespaces cache keys so several deployments can share one
	// backend.
	Scope string `toml:"scope"`
}

// StoreConfig configures dataset persistence.
type StoreConfig struct {
	Backend  string `toml:"backend" validate:"oneof=sqlite mongo"`
	Path     string `toml:"path"`
	MongoURI string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database string `toml:"database"`
}

// SearchConfig holds route search defaults.
type SearchConfig struct {
	Bounds       route.Bounds  `toml:"bounds"`
	Timeout      time.Duration `toml:"timeout" validate:"gte=0"`
	DisplayLimit int           `toml:"display_limit" validate:"gte=0"`
	StationLimit int           `toml:"station_limit" validate:"gte=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			CORSOrigins:  []string{"*"},
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:    CacheFile,
			MaxEntries: 1024,
			Prefix:     "meteo:",
		},
		Store: StoreConfig{
			Backend:  "sqlite",
			Database: "meteo",
		},
		Search: SearchConfig{
			Bounds:       route.DefaultBounds(),
			Timeout:      planner.DefaultTimeout,
			DisplayLimit: route.DefaultDisplayLimit,
			StationLimit: network.DefaultSearchLimit,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns ~/.config/meteo/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "meteo", "config.toml"), nil
}

// Load builds the configuration from defaults, the TOML file at path and
// the environment. An empty path reads DefaultPath when that file exists.
func Load(path string) (Config, error) {
	LoadDotEnv("")

	cfg := Default()
	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of the defaults and validates the result.
// The environment is not consulted.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, merrors.Wrap(merrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return merrors.Wrap(merrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return merrors.New(merrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undec[0].String())
	}
	return nil
}

// LoadDotEnv loads .env and then .env.local from dir, the latter overriding
// the former. Missing files are ignored.
func LoadDotEnv(dir string) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	_ = godotenv.Overload(filepath.Join(dir, ".env.local"))
}

// ApplyEnv overrides settings from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	setString(&c.Server.Addr, getenv("METEO_ADDR"))
	setString(&c.Data.File, getenv("METEO_DATA_FILE"))
	setString(&c.Data.URL, getenv("METEO_DATA_URL"))
	setString(&c.Data.Dataset, getenv("METEO_DATASET"))
	setString(&c.Cache.Backend, getenv("METEO_CACHE"))
	if addr := getenv("METEO_REDIS_ADDR"); addr != "" {
		c.Cache.RedisAddr = addr
		if getenv("METEO_CACHE") == "" {
			c.Cache.Backend = CacheRedis
		}
	}
	setString(&c.Cache.RedisPassword, getenv("METEO_REDIS_PASSWORD"))
	setString(&c.Store.Backend, getenv("METEO_STORE"))
	setString(&c.Store.Path, getenv("METEO_STORE_PATH"))
	setString(&c.Store.MongoURI, getenv("METEO_MONGO_URI"))
	setString(&c.Log.Level, strings.ToLower(getenv("METEO_LOG_LEVEL")))
	if v := getenv("METEO_ROUTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Search.Timeout = d
		}
	}
	if v := getenv("METEO_MAX_ROUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.Bounds.MaxRoutes = n
		}
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration, reporting the first offending field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return merrors.Wrap(merrors.ErrCodeInvalidConfig, err, "invalid config: %s", describe(err))
	}
	if _, err := c.Search.Bounds.Normalize(); err != nil {
		return merrors.Wrap(merrors.ErrCodeInvalidConfig, err, "invalid search bounds")
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag())
}

// ParseLevel returns the configured log level, defaulting to info.
func (l LogConfig) ParseLevel() log.Level {
	lvl, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
