package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/dataset"
	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/observability"
	"github.com/meteo-transit/meteo/pkg/route"
	"github.com/meteo-transit/meteo/pkg/transit"
)

// maxNetworks bounds the in-memory network memo.
const maxNetworks = 8

// Runner loads networks and plans routes with caching. It is safe for
// concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	mu       sync.RWMutex
	networks map[string]*network.Network
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		networks: make(map[string]*network.Network),
	}
}

// Load reads a dataset from src and returns its network.
func (r *Runner) Load(ctx context.Context, src dataset.Source) (*network.Network, error) {
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	net, hit, err := r.NetworkWithCacheInfo(ctx, src.String(), ds)
	if err != nil {
		return nil, err
	}
	if !hit {
		r.Logger.Info("loaded network",
			"source", src,
			"stations", net.StationCount(),
			"lines", len(net.Lines()),
			"hash", cache.ShortHash(net.Hash()))
	}
	return net, nil
}

// NetworkWithCacheInfo builds the network for ds, reusing a previous build
// of an identical dataset. The bool reports whether the memo was hit.
func (r *Runner) NetworkWithCacheInfo(ctx context.Context, source string, ds *transit.Dataset) (*network.Network, bool, error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeMalformedDataset, err, "encode dataset")
	}
	key := r.Keyer.NetworkKey(cache.Hash(data))

	r.mu.RLock()
	net, ok := r.networks[key]
	r.mu.RUnlock()
	if ok {
		observability.Cache().OnCacheHit(ctx, "network")
		return net, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "network")

	hooks := observability.Planner()
	hooks.OnBuildStart(ctx, source)
	start := time.Now()
	net, err = network.Build(ds)
	if err != nil {
		hooks.OnBuildComplete(ctx, source, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnBuildComplete(ctx, source, net.StationCount(), net.EdgeCount(), time.Since(start), nil)

	r.mu.Lock()
	if len(r.networks) >= maxNetworks {
		clear(r.networks)
	}
	r.networks[key] = net
	r.mu.Unlock()
	return net, false, nil
}

// Network is NetworkWithCacheInfo without the cache hit info.
func (r *Runner) Network(ctx context.Context, ds *transit.Dataset) (*network.Network, error) {
	net, _, err := r.NetworkWithCacheInfo(ctx, "dataset", ds)
	return net, err
}

// Plan finds and ranks routes on net.
//
// A search that times out after finding routes returns them with
// Result.Partial set. A search that times out empty-handed returns a
// TIMEOUT error.
func (r *Runner) Plan(ctx context.Context, net *network.Network, opts Options) (*Result, error) {
	if net == nil {
		return nil, errors.New(errors.ErrCodeDatasetUnavailable, "no network loaded")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := &Result{
		From:        opts.From,
		To:          opts.To,
		NetworkHash: net.Hash(),
		Stats:       statsFor(net),
	}
	key := r.Keyer.RouteKey(net.Hash(), opts.From, opts.To, opts.RouteKeyOpts())

	if !opts.Refresh {
		if ranked, ok := r.cachedRoutes(ctx, key); ok {
			res.CacheInfo.RoutesHit = true
			r.finish(res, ranked, opts)
			opts.Logger.Debug("routes from cache", "from", opts.From, "to", opts.To, "total", res.Total)
			return res, nil
		}
	}

	searchCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	hooks := observability.Planner()
	hooks.OnSearchStart(ctx, opts.From, opts.To)
	start := time.Now()
	found, err := route.FindContext(searchCtx, net, opts.From, opts.To, opts.Bounds)
	res.Stats.SearchTime = time.Since(start)
	hooks.OnSearchComplete(ctx, opts.From, opts.To, len(found), res.Stats.SearchTime, err)

	switch {
	case errors.Is(err, errors.ErrCodeTimeout) && len(found) > 0:
		res.Partial = true
		opts.Logger.Warn("route search timed out", "from", opts.From, "to", opts.To, "found", len(found))
	case err != nil:
		return nil, err
	}

	ranked := route.Rank(found)
	if !res.Partial {
		if data, err := json.Marshal(ranked); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLRoutes)
			observability.Cache().OnCacheSet(ctx, "routes", len(data))
		}
	}
	r.finish(res, ranked, opts)

	opts.Logger.Debug("planned routes",
		"from", opts.From,
		"to", opts.To,
		"total", res.Total,
		"duration", res.Stats.SearchTime)
	return res, nil
}

func (r *Runner) cachedRoutes(ctx context.Context, key string) ([]route.Route, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "routes")
		return nil, false
	}
	var ranked []route.Route
	if err := json.Unmarshal(data, &ranked); err != nil {
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "routes")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "routes")
	return ranked, true
}

func (r *Runner) finish(res *Result, ranked []route.Route, opts Options) {
	if ranked == nil {
		ranked = []route.Route{}
	}
	res.Total = len(ranked)
	res.Routes = route.Top(ranked, opts.Limit)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
