package route

import (
	"context"

	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/network"
)

// pollInterval is the number of expansions between context checks.
const pollInterval = 1024

// Find returns the routes from one station to another in discovery order.
// Unknown station codes yield INVALID_STATION_CODE before any search.
func Find(net *network.Network, from, to string, bounds Bounds) ([]Route, error) {
	return FindContext(context.Background(), net, from, to, bounds)
}

// FindContext is [Find] with cancellation. When ctx is done the routes
// found so far are returned together with a TIMEOUT error wrapping
// ctx.Err().
func FindContext(ctx context.Context, net *network.Network, from, to string, bounds Bounds) ([]Route, error) {
	b, err := bounds.Normalize()
	if err != nil {
		return nil, err
	}
	if net == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "network is nil")
	}
	src, ok := net.Node(from)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStationCode, "unknown station %q", from)
	}
	if !net.Has(to) {
		return nil, errors.New(errors.ErrCodeInvalidStationCode, "unknown station %q", to)
	}
	if err := ctx.Err(); err != nil {
		return []Route{}, errors.Wrap(errors.ErrCodeTimeout, err, "route search %s -> %s", from, to)
	}

	s := &search{
		ctx:          ctx,
		net:          net,
		target:       to,
		bounds:       b,
		path:         []Stop{{Station: src.Station}},
		visitedNodes: map[string]bool{from: true},
		visitedLines: map[string]bool{},
		routes:       []Route{},
	}
	s.visit(from, "", 0)
	if s.err != nil {
		return s.routes, errors.Wrap(errors.ErrCodeTimeout, s.err, "route search %s -> %s", from, to)
	}
	return s.routes, nil
}

// search holds the state of one Find call. The path and visited sets are
// shared by all branches and restored on return from each recursive step.
type search struct {
	ctx    context.Context
	net    *network.Network
	target string
	bounds Bounds

	path         []Stop
	visitedNodes map[string]bool
	visitedLines map[string]bool

	routes []Route
	steps  int
	done   bool
	err    error
}

// visit explores from code, reached on line current ("" at the source).
func (s *search) visit(code, current string, interchanges int) {
	if s.done {
		return
	}
	if len(s.routes) >= s.bounds.MaxRoutes {
		s.done = true
		return
	}
	if s.steps++; s.steps%pollInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			s.done = true
			return
		}
	}

	if code == s.target {
		s.record(interchanges)
		return
	}
	if len(s.path) > s.bounds.MaxPathLength || interchanges > s.bounds.Interchanges() {
		return
	}

	for _, e := range s.net.Neighbors(code) {
		if s.done {
			return
		}
		if s.visitedNodes[e.To] {
			continue
		}
		switching := current != "" && current != e.LineID
		if switching && s.visitedLines[e.LineID] {
			continue
		}

		node, _ := s.net.Node(e.To)
		ref := e.Line()
		s.path = append(s.path, Stop{Station: node.Station, Line: &ref})
		s.visitedNodes[e.To] = true
		addedLine := !s.visitedLines[e.LineID]
		if addedLine {
			s.visitedLines[e.LineID] = true
		}

		next := interchanges
		if switching {
			next++
		}
		s.visit(e.To, e.LineID, next)

		if addedLine {
			delete(s.visitedLines, e.LineID)
		}
		delete(s.visitedNodes, e.To)
		s.path = s.path[:len(s.path)-1]
	}
}

func (s *search) record(interchanges int) {
	path := make([]Stop, len(s.path))
	copy(path, s.path)
	s.routes = append(s.routes, Route{
		Path:          path,
		TotalStations: len(path),
		Interchanges:  interchanges,
		Lines:         Segments(path),
	})
}

// FindRoutes returns the ranked routes from one station to another.
func FindRoutes(net *network.Network, from, to string, bounds Bounds) ([]Route, error) {
	routes, err := Find(net, from, to, bounds)
	if err != nil {
		return nil, err
	}
	return Rank(routes), nil
}
