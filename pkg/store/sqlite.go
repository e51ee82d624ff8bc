package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/transit"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS datasets (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	hash       TEXT NOT NULL,
	lines      INTEGER NOT NULL,
	stations   INTEGER NOT NULL,
	data       BLOB NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps datasets in a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (and creates if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "sqlite store path is empty")
	}
	db, err := sql.Open("sqlite", path+"?_journal=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Save stores ds under name.
func (s *SQLiteStore) Save(ctx context.Context, name string, ds *transit.Dataset) (Info, error) {
	data, info, err := encode(name, ds)
	if err != nil {
		return Info{}, err
	}
	now := s.now().UTC()
	stamp := now.Format(time.RFC3339Nano)

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO datasets (id, name, hash, lines, stations, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			hash = excluded.hash,
			lines = excluded.lines,
			stations = excluded.stations,
			data = excluded.data,
			updated_at = excluded.updated_at
		RETURNING id, created_at`,
		uuid.NewString(), info.Name, info.Hash, info.Lines, info.Stations, data, stamp, stamp)

	var created string
	if err := row.Scan(&info.ID, &created); err != nil {
		return Info{}, fmt.Errorf("save dataset %q: %w", name, err)
	}
	info.CreatedAt = parseTime(created)
	info.UpdatedAt = now
	return info, nil
}

// Load returns the dataset stored under name.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*transit.Dataset, Info, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, hash, lines, stations, created_at, updated_at, data
		FROM datasets WHERE name = ?`, name)

	var data []byte
	info, err := scanInfo(row, &data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, Info{}, notFound(name)
	}
	if err != nil {
		return nil, Info{}, fmt.Errorf("load dataset %q: %w", name, err)
	}
	ds, err := decode(name, data)
	if err != nil {
		return nil, Info{}, err
	}
	return ds, info, nil
}

// List returns all stored datasets ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hash, lines, stations, created_at, updated_at
		FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	out := []Info{}
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the dataset stored under name.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(name)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(row scanner, extra ...any) (Info, error) {
	var info Info
	var created, updated string
	dest := append([]any{&info.ID, &info.Name, &info.Hash, &info.Lines, &info.Stations, &created, &updated}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Info{}, err
	}
	info.CreatedAt = parseTime(created)
	info.UpdatedAt = parseTime(updated)
	return info, nil
}

// parseTime reads an RFC3339 column, returning the zero time if malformed.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ Store = (*SQLiteStore)(nil)
