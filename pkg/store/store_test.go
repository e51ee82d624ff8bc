package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/transit"
	"github.com/meteo-transit/meteo/pkg/transit/transittest"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "meteo.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// exercise runs the behaviour every backend must share.
func exercise(t *testing.T, s Store) {
	ctx := context.Background()

	if _, _, err := s.Load(ctx, "delhi"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) error = %v, want NOT_FOUND", err)
	}

	first, err := s.Save(ctx, "delhi", transittest.Interchange())
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if first.ID == "" || first.Hash == "" {
		t.Errorf("Save info = %+v, want id and hash", first)
	}
	if first.Lines != 2 || first.Stations != 5 {
		t.Errorf("Save info lines/stations = %d/%d, want 2/5", first.Lines, first.Stations)
	}

	ds, info, err := s.Load(ctx, "delhi")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(ds.Lines) != 2 || ds.Lines[1].ID != "BL" {
		t.Errorf("Load dataset lines = %+v", ds.Lines)
	}
	if info.Hash != first.Hash {
		t.Errorf("Load hash = %s, want %s", info.Hash, first.Hash)
	}

	second, err := s.Save(ctx, "delhi", transittest.Loop())
	if err != nil {
		t.Fatalf("Save (replace) error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("replaced dataset id = %s, want kept %s", second.ID, first.ID)
	}
	if second.Hash == first.Hash {
		t.Error("replaced dataset kept the old hash")
	}

	if _, err := s.Save(ctx, "bengaluru", transittest.SameLine()); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 || list[0].Name != "bengaluru" || list[1].Name != "delhi" {
		t.Errorf("List = %+v, want bengaluru, delhi", list)
	}

	if err := s.Delete(ctx, "bengaluru"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := s.Delete(ctx, "bengaluru"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	exercise(t, newSQLite(t))
}

func TestSQLiteStoreRejects(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, "../etc", transittest.SameLine()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(bad name) error = %v, want INVALID_INPUT", err)
	}
	bad := &transit.Dataset{Lines: []transit.Line{{ID: "RD"}}}
	if _, err := s.Save(ctx, "bad", bad); !errors.Is(err, errors.ErrCodeMalformedDataset) {
		t.Errorf("Save(malformed) error = %v, want MALFORMED_DATASET", err)
	}
}

func TestSQLiteStoreTimestamps(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }

	first, _ := s.Save(ctx, "x", transittest.SameLine())
	s.now = func() time.Time { return t0.Add(time.Hour) }
	second, _ := s.Save(ctx, "x", transittest.SameLine())

	if !second.CreatedAt.Equal(t0) {
		t.Errorf("CreatedAt = %v, want %v", second.CreatedAt, t0)
	}
	if !second.UpdatedAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v, want %v", second.UpdatedAt, t0.Add(time.Hour))
	}
	if !first.CreatedAt.Equal(second.CreatedAt) {
		t.Error("CreatedAt changed on replace")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{Backend: BackendSQLite, DSN: filepath.Join(t.TempDir(), "x.db")})
	if err != nil {
		t.Fatalf("Open(sqlite) error: %v", err)
	}
	s.Close()

	if _, err := Open(ctx, Options{Backend: "etcd"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Open(etcd) error = %v, want INVALID_CONFIG", err)
	}
	if _, err := Open(ctx, Options{Backend: BackendSQLite}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Open(sqlite, no path) error = %v, want INVALID_CONFIG", err)
	}
}

// Runs against a live server only when METEO_TEST_MONGO holds its URI.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("METEO_TEST_MONGO")
	if uri == "" {
		t.Skip("METEO_TEST_MONGO not set")
	}
	ctx := context.Background()
	db := "meteo_test_" + time.Now().Format("20060102150405")

	s, err := NewMongoStore(ctx, uri, db)
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	t.Cleanup(func() {
		_ = s.client.Database(db).Drop(ctx)
		s.Close()
	})
	exercise(t, s)
}
