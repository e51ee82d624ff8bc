// Package store persists named transit datasets.
//
// Two backends implement [Store]: [SQLiteStore] for single-host use (the
// default, a file next to the cache) and [MongoStore] for deployments that
// share datasets between servers. Datasets are stored as their JSON
// encoding together with a summary [Info].
//
//	st, err := store.Open(ctx, store.Options{Backend: "sqlite", DSN: "meteo.db"})
//	info, err := st.Save(ctx, "delhi", ds)
//	ds, info, err := st.Load(ctx, "delhi")
//
// A missing dataset is reported as a NOT_FOUND error.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/transit"
)

// Backend names accepted by [Open].
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Info summarizes a stored dataset.
type Info struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Hash      string    `json:"hash" bson:"hash"`
	Lines     int       `json:"lines" bson:"lines"`
	Stations  int       `json:"stations" bson:"stations"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store saves and loads datasets by name.
type Store interface {
	// Save validates ds and stores it under name, replacing any previous
	// dataset of that name. The id of an existing entry is kept.
	Save(ctx context.Context, name string, ds *transit.Dataset) (Info, error)

	// Load returns the dataset stored under name.
	Load(ctx context.Context, name string) (*transit.Dataset, Info, error)

	// List returns all stored datasets ordered by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes the dataset stored under name.
	Delete(ctx context.Context, name string) error

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	DSN      string // SQLite file path or MongoDB URI
	Database string // MongoDB database name
}

// Open connects to the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		return NewSQLiteStore(ctx, opts.DSN)
	case BackendMongo:
		return NewMongoStore(ctx, opts.DSN, opts.Database)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", opts.Backend)
	}
}

// encode validates ds and returns its JSON encoding and summary.
func encode(name string, ds *transit.Dataset) ([]byte, Info, error) {
	if err := errors.ValidateDatasetName(name); err != nil {
		return nil, Info{}, err
	}
	if err := ds.Validate(); err != nil {
		return nil, Info{}, err
	}
	data, err := json.Marshal(ds)
	if err != nil {
		return nil, Info{}, errors.Wrap(errors.ErrCodeInternal, err, "encode dataset %q", name)
	}
	return data, Info{
		Name:     name,
		Hash:     cache.Hash(data),
		Lines:    len(ds.Lines),
		Stations: ds.StationCount(),
	}, nil
}

func decode(name string, data []byte) (*transit.Dataset, error) {
	var ds transit.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDataset, err, "decode stored dataset %q", name)
	}
	return &ds, nil
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeNotFound, "dataset %q not found", name)
}
