package planner

import (
	"context"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/dataset"
	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/route"
	"github.com/meteo-transit/meteo/pkg/transit"
	"github.com/meteo-transit/meteo/pkg/transit/transittest"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newRunner(t *testing.T, c cache.Cache) (*Runner, *network.Network) {
	t.Helper()
	r := NewRunner(c, nil, quietLogger())
	net, err := r.Load(context.Background(), dataset.Static{Dataset: transittest.Loop()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return r, net
}

func codes(routes []route.Route) [][]string {
	out := make([][]string, len(routes))
	for i, r := range routes {
		out[i] = r.Codes()
	}
	return out
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, ok := r.Cache.(*cache.NullCache); !ok {
		t.Errorf("Cache = %T, want *cache.NullCache", r.Cache)
	}
	if r.Keyer == nil || r.Logger == nil {
		t.Error("NewRunner left Keyer or Logger nil")
	}
}

func TestPlan(t *testing.T) {
	r, net := newRunner(t, cache.NewMemoryCache(0))
	ctx := context.Background()

	res, err := r.Plan(ctx, net, Options{From: "P", To: "S"})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	want := [][]string{{"P", "T", "S"}, {"P", "Q", "R", "S"}, {"P", "Q", "S"}}
	if got := codes(res.Routes); !reflect.DeepEqual(got, want) {
		t.Errorf("Routes = %v, want %v", got, want)
	}
	if res.Total != 3 || res.Truncated() {
		t.Errorf("Total = %d, Truncated = %v; want 3, false", res.Total, res.Truncated())
	}
	if res.CacheInfo.RoutesHit {
		t.Error("first Plan() reported a cache hit")
	}
	if res.NetworkHash != net.Hash() {
		t.Error("NetworkHash does not match the network")
	}
	if best, ok := res.Best(); !ok || best.TotalStations != 3 {
		t.Errorf("Best() = %v, %v", best.Codes(), ok)
	}

	again, err := r.Plan(ctx, net, Options{From: "P", To: "S"})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if !again.CacheInfo.RoutesHit {
		t.Error("second Plan() missed the cache")
	}
	if !reflect.DeepEqual(codes(again.Routes), want) {
		t.Errorf("cached Routes = %v, want %v", codes(again.Routes), want)
	}

	fresh, _ := r.Plan(ctx, net, Options{From: "P", To: "S", Refresh: true})
	if fresh.CacheInfo.RoutesHit {
		t.Error("Refresh should skip the cache")
	}
}

func TestPlanLimit(t *testing.T) {
	r, net := newRunner(t, nil)
	ctx := context.Background()

	tests := []struct {
		limit     int
		want      int
		truncated bool
	}{
		{0, 3, false},
		{1, 1, true},
		{2, 2, true},
		{-1, 3, false},
	}
	for _, tt := range tests {
		res, err := r.Plan(ctx, net, Options{From: "P", To: "S", Limit: tt.limit})
		if err != nil {
			t.Fatalf("Plan(limit=%d) error: %v", tt.limit, err)
		}
		if len(res.Routes) != tt.want || res.Truncated() != tt.truncated {
			t.Errorf("Plan(limit=%d) = %d routes, truncated %v; want %d, %v",
				tt.limit, len(res.Routes), res.Truncated(), tt.want, tt.truncated)
		}
	}
}

func TestPlanBoundsChangeCacheKey(t *testing.T) {
	r, net := newRunner(t, cache.NewMemoryCache(0))
	ctx := context.Background()

	if _, err := r.Plan(ctx, net, Options{From: "P", To: "S"}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Plan(ctx, net, Options{From: "P", To: "S", Bounds: route.Bounds{MaxRoutes: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RoutesHit {
		t.Error("different bounds hit the cache")
	}
	if res.Total != 1 {
		t.Errorf("Total = %d, want 1", res.Total)
	}
}

func TestPlanErrors(t *testing.T) {
	r, net := newRunner(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		net  *network.Network
		opts Options
		code errors.Code
	}{
		{"no network", nil, Options{From: "P", To: "S"}, errors.ErrCodeDatasetUnavailable},
		{"empty from", net, Options{To: "S"}, errors.ErrCodeInvalidInput},
		{"bad to", net, Options{From: "P", To: "a\nb"}, errors.ErrCodeInvalidInput},
		{"negative bounds", net, Options{From: "P", To: "S", Bounds: route.Bounds{MaxRoutes: -1}}, errors.ErrCodeInvalidInput},
		{"unknown station", net, Options{From: "P", To: "ZZ"}, errors.ErrCodeInvalidStationCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Plan(ctx, tt.net, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Plan() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPlanErrorMessage(t *testing.T) {
	r, net := newRunner(t, nil)

	_, err := r.Plan(context.Background(), net, Options{From: "", To: "S"})
	if err == nil {
		t.Fatal("Plan() error = nil, want INVALID_INPUT")
	}
	msg := err.Error()
	if n := strings.Count(msg, "station code cannot be empty"); n != 1 {
		t.Errorf("Plan() error = %q, want the cause once, got %d times", msg, n)
	}
}

func TestPlanCodesWithSpaces(t *testing.T) {
	ds := &transit.Dataset{Lines: []transit.Line{
		transittest.Line("KG",
			transittest.Station("KG 1", 1), transittest.Station("KG 2", 2), transittest.Station("KG 3", 3)),
	}}
	r := NewRunner(nil, nil, quietLogger())
	net, err := r.Load(context.Background(), dataset.Static{Dataset: ds})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	res, err := r.Plan(context.Background(), net, Options{From: "KG 1", To: "KG 3"})
	if err != nil {
		t.Fatalf("Plan(KG 1, KG 3) error: %v", err)
	}
	if got := codes(res.Routes); !reflect.DeepEqual(got, [][]string{{"KG 1", "KG 2", "KG 3"}}) {
		t.Errorf("Plan(KG 1, KG 3) = %v, want [[KG 1 KG 2 KG 3]]", got)
	}
}

func TestPlanNoRoute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	net, err := r.Network(context.Background(), transittest.Disconnected())
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Plan(context.Background(), net, Options{From: "A", To: "N"})
	if err != nil {
		t.Fatalf("Plan() error = %v, want nil", err)
	}
	if res.Routes == nil || len(res.Routes) != 0 || res.Total != 0 {
		t.Errorf("Routes = %v, Total = %d; want empty", res.Routes, res.Total)
	}
	if _, ok := res.Best(); ok {
		t.Error("Best() found a route on a disconnected network")
	}
}

func TestPlanCancelled(t *testing.T) {
	r, net := newRunner(t, cache.NewMemoryCache(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Plan(ctx, net, Options{From: "P", To: "S", Timeout: time.Second})
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("Plan() error = %v, want TIMEOUT", err)
	}
}

func TestNetworkMemo(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	a, hit, err := r.NetworkWithCacheInfo(ctx, "a", transittest.Interchange())
	if err != nil || hit {
		t.Fatalf("first build = hit %v, err %v", hit, err)
	}
	b, hit, err := r.NetworkWithCacheInfo(ctx, "b", transittest.Interchange())
	if err != nil || !hit {
		t.Fatalf("second build = hit %v, err %v; want memo hit", hit, err)
	}
	if a != b {
		t.Error("identical datasets produced different networks")
	}

	malformed := transittest.Interchange()
	malformed.Lines[0].Stations = nil
	if _, err := r.Network(ctx, malformed); !errors.Is(err, errors.ErrCodeMalformedDataset) {
		t.Errorf("Network(malformed) error = %v, want MALFORMED_DATASET", err)
	}
}

func TestLoadUnavailable(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Load(context.Background(), dataset.Static{})
	if !errors.Is(err, errors.ErrCodeDatasetUnavailable) {
		t.Errorf("Load() error = %v, want DATASET_UNAVAILABLE", err)
	}
}
