package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/dataset"
	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/store"
)

// OpenCache constructs the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheMemory:
		return cache.NewMemoryCache(c.Cache.MaxEntries), nil
	case CacheFile, "":
		dir := c.Cache.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.Prefix,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
}

// Keyer returns the cache key generator, scoped when Cache.Scope is set.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Scope+":")
}

// StorePath returns the SQLite file, defaulting to
// ~/.config/meteo/datasets.db.
func (c Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "meteo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "datasets.db"), nil
}

// OpenStore connects to the configured dataset store.
func (c Config) OpenStore(ctx context.Context) (store.Store, error) {
	opts := store.Options{Backend: c.Store.Backend, Database: c.Store.Database}
	if c.Store.Backend == store.BackendMongo {
		opts.DSN = c.Store.MongoURI
	} else {
		path, err := c.StorePath()
		if err != nil {
			return nil, err
		}
		opts.DSN = path
	}
	return store.Open(ctx, opts)
}

// NeedsStore reports whether the dataset is loaded from the store.
func (c Config) NeedsStore() bool {
	return c.Data.File == "" && c.Data.URL == "" && c.Data.Dataset != ""
}

// SourceOptions maps the data settings to dataset source options. st may be
// nil unless NeedsStore reports true.
func (c Config) SourceOptions(st store.Store, ch cache.Cache) dataset.SourceOptions {
	return dataset.SourceOptions{
		File:      c.Data.File,
		URL:       c.Data.URL,
		StoreName: c.Data.Dataset,
		Store:     st,
		Cache:     ch,
		Keyer:     c.Keyer(),
		EnvVars:   c.Data.EnvVars,
	}
}
