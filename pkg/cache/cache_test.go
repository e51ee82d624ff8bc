package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "routes:net1:ab", []byte(`[{"path":[]}]`), time.Hour); err != nil {
		t.Errorf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, "routes:net1:ab")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want a plain miss", data, hit, err)
	}
	if err := c.Delete(ctx, "routes:net1:ab"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}

	clearer, ok := c.(Clearer)
	if !ok {
		t.Fatal("NullCache should implement Clearer")
	}
	if err := clearer.Clear(ctx); err != nil {
		t.Errorf("Clear() error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "routes:a"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "routes:a", []byte(`[1,2]`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "routes:a")
	if err != nil || !hit || string(data) != "[1,2]" {
		t.Errorf("Get = %q, %v, %v; want [1,2], true, nil", data, hit, err)
	}

	if err := c.Delete(ctx, "routes:a"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "routes:a"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)

	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry Get = %v, %v; want miss without error", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("Get(%s) hit after Clear", k)
		}
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("cache dir missing after Clear: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	src := []byte("value")
	_ = c.Set(ctx, "k", src, 0)
	src[0] = 'X'

	data, hit, _ := c.Get(ctx, "k")
	if !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v; want stored copy", data, hit)
	}

	_ = c.Delete(ctx, "k")
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	now = now.Add(30 * time.Second)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("entry should live for its TTL")
	}
	now = now.Add(time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should expire after its TTL")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	_ = c.Set(ctx, "forever", []byte("1"), 0)
	_ = c.Set(ctx, "short", []byte("2"), time.Minute)
	_ = c.Set(ctx, "new", []byte("3"), time.Hour)

	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("entry expiring soonest should be evicted")
	}
	for _, k := range []string{"forever", "new"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("Get(%s) missed, want kept", k)
		}
	}

	_ = c.Clear(ctx)
	if got := c.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
}

func TestMemoryCacheEvictsEmptyKey(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	_ = c.Set(ctx, "", []byte("1"), time.Minute)
	_ = c.Set(ctx, "later", []byte("2"), time.Hour)
	_ = c.Set(ctx, "new", []byte("3"), 2*time.Hour)

	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if _, hit, _ := c.Get(ctx, ""); hit {
		t.Error("empty key expiring soonest should be evicted")
	}
	if _, hit, _ := c.Get(ctx, "later"); !hit {
		t.Error("Get(later) missed, want kept")
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte(`{"lines":[]}`))
	if h != Hash([]byte(`{"lines":[]}`)) {
		t.Error("Hash should be deterministic")
	}
	if h == Hash([]byte(`{"lines":[{"id":"RD"}]}`)) {
		t.Error("different datasets should hash differently")
	}
	if len(h) != 64 {
		t.Errorf("len(Hash()) = %d, want 64", len(h))
	}
}

func TestShortHash(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0123456789abcdef", "0123456789ab"},
		{"0123456789ab", "0123456789ab"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ShortHash(tt.in); got != tt.want {
			t.Errorf("ShortHash(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRouteKeyHidesStationCodes(t *testing.T) {
	k := NewDefaultKeyer()

	key := k.RouteKey("net1", "KG 1", "KG:2", RouteKeyOpts{})
	rest := strings.TrimPrefix(key, "routes:net1:")
	if rest == key || strings.ContainsAny(rest, " :") || len(rest) != 64 {
		t.Errorf("RouteKey() = %q, want routes:net1:<digest>", key)
	}
	// Codes are hashed as separate values, so a split point cannot collide.
	if k.RouteKey("n", "AB", "C", RouteKeyOpts{}) == k.RouteKey("n", "A", "BC", RouteKeyOpts{}) {
		t.Error("RouteKey(AB, C) collides with RouteKey(A, BC)")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.NetworkKey("abc"); got != "network:abc" {
		t.Errorf("NetworkKey = %s, want network:abc", got)
	}

	rk1 := k.RouteKey("net1", "A", "B", RouteKeyOpts{MaxRoutes: 20})
	rk2 := k.RouteKey("net1", "A", "B", RouteKeyOpts{MaxRoutes: 10})
	rk3 := k.RouteKey("net1", "B", "A", RouteKeyOpts{MaxRoutes: 20})
	rk4 := k.RouteKey("net2", "A", "B", RouteKeyOpts{MaxRoutes: 20})
	if rk1 == rk2 || rk1 == rk3 || rk1 == rk4 {
		t.Error("RouteKey should depend on network, direction and bounds")
	}
	if !strings.HasPrefix(rk1, "routes:net1:") {
		t.Errorf("RouteKey unexpected: %s", rk1)
	}

	if k.DatasetKey("https://a") == k.DatasetKey("https://b") {
		t.Error("DatasetKey should depend on source")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "meteo:prod:")

	if got := scoped.NetworkKey("abc"); got != "meteo:prod:network:abc" {
		t.Errorf("ScopedKeyer NetworkKey unexpected: %s", got)
	}
	if got := scoped.RouteKey("n", "A", "B", RouteKeyOpts{}); !strings.HasPrefix(got, "meteo:prod:routes:n:") {
		t.Errorf("ScopedKeyer RouteKey should be prefixed: %s", got)
	}
	if got := scoped.DatasetKey("x"); !strings.HasPrefix(got, "meteo:prod:dataset:") {
		t.Errorf("ScopedKeyer DatasetKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.NetworkKey("h"); key != "prefix:network:h" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
