package route

import (
	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/transit"
)

// Default search bounds.
const (
	DefaultMaxRoutes       = 20
	DefaultMaxPathLength   = 50
	DefaultMaxInterchanges = 5
)

// DefaultDisplayLimit is the number of ranked routes shown to a user.
const DefaultDisplayLimit = 3

// Bounds limit a search. Zero MaxRoutes and MaxPathLength take their
// defaults, as does a nil MaxInterchanges. A MaxInterchanges of zero keeps
// the search on the source's line.
//
// The target check runs before the length and interchange checks, so a
// route may reach its target with one hop past MaxPathLength or one
// interchange past MaxInterchanges.
type Bounds struct {
	MaxRoutes       int `json:"max_routes" toml:"max_routes"`
	MaxPathLength   int `json:"max_path_length" toml:"max_path_length"`
	MaxInterchanges *int `json:"max_interchanges,omitempty" toml:"max_interchanges"`
}

// AtMost returns a pointer to n, for setting [Bounds.MaxInterchanges].
func AtMost(n int) *int { return &n }

// Interchanges returns MaxInterchanges, or its default when unset.
func (b Bounds) Interchanges() int {
	if b.MaxInterchanges == nil {
		return DefaultMaxInterchanges
	}
	return *b.MaxInterchanges
}

// DefaultBounds returns the bounds used when none are given.
func DefaultBounds() Bounds {
	return Bounds{
		MaxRoutes:       DefaultMaxRoutes,
		MaxPathLength:   DefaultMaxPathLength,
		MaxInterchanges: AtMost(DefaultMaxInterchanges),
	}
}

// Normalize rejects negative fields and fills unset fields with defaults.
// The result always has a non-nil MaxInterchanges.
func (b Bounds) Normalize() (Bounds, error) {
	if b.MaxRoutes < 0 || b.MaxPathLength < 0 || b.Interchanges() < 0 {
		return b, errors.New(errors.ErrCodeInvalidInput,
			"bounds must not be negative (routes=%d, path=%d, interchanges=%d)",
			b.MaxRoutes, b.MaxPathLength, b.Interchanges())
	}
	d := DefaultBounds()
	if b.MaxRoutes == 0 {
		b.MaxRoutes = d.MaxRoutes
	}
	if b.MaxPathLength == 0 {
		b.MaxPathLength = d.MaxPathLength
	}
	if b.MaxInterchanges == nil {
		b.MaxInterchanges = d.MaxInterchanges
	}
	return b, nil
}

// Stop is one station of a route path. Line is the line used to reach it,
// nil for the first stop.
type Stop struct {
	transit.Station
	Line *network.LineRef `json:"line"`
}

// Segment is a maximal run of consecutive stops reached on the same line.
type Segment struct {
	LineID    string `json:"lineId"`
	LineName  string `json:"lineName"`
	LineColor string `json:"lineColor"`
	Stations  []Stop `json:"stations"`
}

// Route is one way from a source to a target station.
type Route struct {
	Path          []Stop    `json:"path"`
	TotalStations int       `json:"totalStations"`
	Interchanges  int       `json:"interchanges"`
	Lines         []Segment `json:"lines"`
}

// Codes returns the station codes along the path.
func (r Route) Codes() []string {
	out := make([]string, len(r.Path))
	for i, s := range r.Path {
		out[i] = s.Code
	}
	return out
}

// Source returns the first stop's code, or "" for an empty route.
func (r Route) Source() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[0].Code
}

// Target returns the last stop's code, or "" for an empty route.
func (r Route) Target() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[len(r.Path)-1].Code
}
