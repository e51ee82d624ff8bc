package planner

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/route"
)

// DefaultTimeout bounds a single search when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Options configures one Plan call.
type Options struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Bounds route.Bounds `json:"bounds"`

	// Limit is the number of ranked routes returned. Zero means
	// route.DefaultDisplayLimit, negative means all.
	Limit int `json:"limit,omitempty"`

	// Timeout bounds the search. Zero means DefaultTimeout, negative
	// means no timeout.
	Timeout time.Duration `json:"-"`

	// Refresh skips the route cache lookup.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks station codes and bounds and fills in
// defaults. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateStationCode(o.From); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "from: %s", errors.UserMessage(err))
	}
	if err := errors.ValidateStationCode(o.To); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "to: %s", errors.UserMessage(err))
	}
	b, err := o.Bounds.Normalize()
	if err != nil {
		return err
	}
	o.Bounds = b
	if o.Limit == 0 {
		o.Limit = route.DefaultDisplayLimit
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RouteKeyOpts returns the cache key options for the search bounds.
func (o *Options) RouteKeyOpts() cache.RouteKeyOpts {
	return cache.RouteKeyOpts{
		MaxRoutes:       o.Bounds.MaxRoutes,
		MaxPathLength:   o.Bounds.MaxPathLength,
		MaxInterchanges: o.Bounds.Interchanges(),
	}
}

// Result holds the outcome of a Plan call.
type Result struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Routes are the ranked routes, cut to Options.Limit.
	Routes []route.Route `json:"routes"`

	// Total is the number of routes found before the limit was applied.
	Total int `json:"total"`

	// Partial is set when the search timed out and Routes holds only
	// what was found in time.
	Partial bool `json:"partial,omitempty"`

	NetworkHash string    `json:"network_hash"`
	Stats       Stats     `json:"-"`
	CacheInfo   CacheInfo `json:"-"`
}

// Truncated reports whether routes were dropped by the limit.
func (r *Result) Truncated() bool {
	return len(r.Routes) < r.Total
}

// Best returns the top route, or false when none was found.
func (r *Result) Best() (route.Route, bool) {
	if len(r.Routes) == 0 {
		return route.Route{}, false
	}
	return r.Routes[0], true
}

// Stats contains execution statistics.
type Stats struct {
	Stations   int
	Edges      int
	SearchTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RoutesHit bool // Whether the ranked routes came from cache
}

func statsFor(net *network.Network) Stats {
	return Stats{Stations: net.StationCount(), Edges: net.EdgeCount()}
}
