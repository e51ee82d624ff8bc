package dataset

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/httputil"
	"github.com/meteo-transit/meteo/pkg/store"
	"github.com/meteo-transit/meteo/pkg/transit"
)

// DefaultEnvVars are read in order by an [EnvSource] without variables.
var DefaultEnvVars = []string{"METEO_DATA", "VITE_METEO_DATA"}

// Source loads a dataset.
type Source interface {
	Load(ctx context.Context) (*transit.Dataset, error)
	// String describes the source for logs and cache keys.
	String() string
}

func unavailable(src Source, err error) error {
	if errors.Is(err, errors.ErrCodeDatasetUnavailable) {
		return err
	}
	return errors.Wrap(errors.ErrCodeDatasetUnavailable, err, "load dataset from %s", src)
}

// FileSource reads a JSON or YAML file.
type FileSource struct {
	Path string
}

// Load reads the file.
func (s FileSource) Load(ctx context.Context) (*transit.Dataset, error) {
	ds, err := Import(s.Path)
	if err != nil {
		return nil, unavailable(s, err)
	}
	return ds, nil
}

func (s FileSource) String() string { return "file:" + s.Path }

// EnvSource reads a JSON dataset from the first set environment variable.
type EnvSource struct {
	Vars []string
}

func (s EnvSource) vars() []string {
	if len(s.Vars) == 0 {
		return DefaultEnvVars
	}
	return s.Vars
}

// Load decodes the variable's value.
func (s EnvSource) Load(ctx context.Context) (*transit.Dataset, error) {
	for _, name := range s.vars() {
		v, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		ds, err := ReadJSON(strings.NewReader(v))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDatasetUnavailable, err, "parse $%s", name)
		}
		return ds, nil
	}
	return nil, errors.New(errors.ErrCodeDatasetUnavailable, "none of %s is set", strings.Join(s.vars(), ", "))
}

func (s EnvSource) String() string { return "env:" + strings.Join(s.vars(), ",") }

// HTTPSource fetches a JSON dataset, retrying transient failures. Bodies
// are cached under the URL when Cache is set.
type HTTPSource struct {
	URL    string
	Client *httputil.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration

	// Attempts and Backoff default to 3 and 1s.
	Attempts int
	Backoff  time.Duration
}

// Load fetches (or reads the cached copy of) the dataset.
func (s HTTPSource) Load(ctx context.Context) (*transit.Dataset, error) {
	if err := errors.ValidateURL(s.URL); err != nil {
		return nil, unavailable(s, err)
	}
	key := s.keyer().DatasetKey(s.URL)
	if s.Cache != nil {
		if data, ok, _ := s.Cache.Get(ctx, key); ok {
			if ds, err := ReadJSON(bytes.NewReader(data)); err == nil {
				return ds, nil
			}
			_ = s.Cache.Delete(ctx, key)
		}
	}

	client := s.Client
	if client == nil {
		client = httputil.NewClient(map[string]string{"Accept": "application/json"})
	}
	attempts, backoff := s.Attempts, s.Backoff
	if attempts <= 0 {
		attempts = 3
	}
	if backoff <= 0 {
		backoff = time.Second
	}

	var body []byte
	err := httputil.Retry(ctx, attempts, backoff, func() (err error) {
		body, err = client.Get(ctx, s.URL)
		return err
	})
	if err != nil {
		return nil, unavailable(s, err)
	}
	ds, err := ReadJSON(bytes.NewReader(body))
	if err != nil {
		return nil, unavailable(s, err)
	}

	if s.Cache != nil {
		ttl := s.TTL
		if ttl == 0 {
			ttl = cache.TTLDataset
		}
		_ = s.Cache.Set(ctx, key, body, ttl)
	}
	return ds, nil
}

func (s HTTPSource) keyer() cache.Keyer {
	if s.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return s.Keyer
}

func (s HTTPSource) String() string { return s.URL }

// StoreSource loads a named dataset from a store.
type StoreSource struct {
	Store store.Store
	Name  string
}

// Load reads the stored dataset.
func (s StoreSource) Load(ctx context.Context) (*transit.Dataset, error) {
	if s.Store == nil {
		return nil, errors.New(errors.ErrCodeDatasetUnavailable, "no store configured")
	}
	ds, _, err := s.Store.Load(ctx, s.Name)
	if err != nil {
		return nil, unavailable(s, err)
	}
	return ds, nil
}

func (s StoreSource) String() string { return fmt.Sprintf("store:%s", s.Name) }

// Static serves an in-memory dataset.
type Static struct {
	Dataset *transit.Dataset
	Name    string
}

// Load returns the dataset, or DATASET_UNAVAILABLE when it is nil.
func (s Static) Load(ctx context.Context) (*transit.Dataset, error) {
	if s.Dataset == nil {
		return nil, errors.New(errors.ErrCodeDatasetUnavailable, "no dataset loaded")
	}
	return s.Dataset, nil
}

func (s Static) String() string {
	if s.Name == "" {
		return "static"
	}
	return "static:" + s.Name
}

// SourceOptions picks a source. The first non-empty field wins in the
// order File, URL, StoreName; with none set the environment is read.
type SourceOptions struct {
	File      string
	URL       string
	StoreName string
	Store     store.Store
	Cache     cache.Cache
	Keyer     cache.Keyer
	EnvVars   []string
}

// NewSource returns the source selected by opts.
func NewSource(opts SourceOptions) Source {
	switch {
	case opts.File != "":
		return FileSource{Path: opts.File}
	case opts.URL != "":
		return HTTPSource{URL: opts.URL, Cache: opts.Cache, Keyer: opts.Keyer}
	case opts.StoreName != "":
		return StoreSource{Store: opts.Store, Name: opts.StoreName}
	default:
		return EnvSource{Vars: opts.EnvVars}
	}
}
