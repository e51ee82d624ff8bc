package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/planner"
	"github.com/meteo-transit/meteo/pkg/route"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Stations  int       `json:"stations"`
	Lines     int       `json:"lines"`
	Source    string    `json:"source"`
	LoadedAt  time.Time `json:"loaded_at,omitzero"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, net := s.snapshot()
	resp := healthResponse{
		Status:    "ok",
		Source:    s.source.String(),
		Timestamp: time.Now().UTC(),
	}
	if net == nil {
		resp.Status = "error"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	s.mu.RLock()
	resp.LoadedAt = s.loadedAt
	s.mu.RUnlock()
	resp.Stations = net.StationCount()
	resp.Lines = len(net.Lines())
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMetroData(w http.ResponseWriter, r *http.Request) {
	ds, _ := s.snapshot()
	if ds == nil {
		s.mu.RLock()
		loadErr := s.loadErr
		s.mu.RUnlock()
		if errors.Is(loadErr, errors.ErrCodeMalformedDataset) {
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to load metro data"})
			return
		}
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Metro data not found"})
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

type stationsResponse struct {
	Stations []*network.Node `json:"stations"`
	Count    int             `json:"count"`
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	_, net := s.snapshot()
	if net == nil {
		writeError(w, r, unavailable())
		return
	}

	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), "limit", s.opts.StationLimit, 1)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var nodes []*network.Node
	if query := q.Get("q"); query != "" {
		nodes = net.Search(query, limit)
	} else {
		nodes = net.Nodes()
		if len(nodes) > limit {
			nodes = nodes[:limit]
		}
	}
	writeJSON(w, http.StatusOK, stationsResponse{Stations: nodes, Count: len(nodes)})
}

func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	_, net := s.snapshot()
	if net == nil {
		writeError(w, r, unavailable())
		return
	}

	code := chi.URLParam(r, "code")
	node, ok := net.Node(code)
	if !ok {
		writeError(w, r, errors.New(errors.ErrCodeInvalidStationCode, "unknown station %q", code))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

type routesResponse struct {
	ID        string        `json:"id"`
	From      string        `json:"from"`
	To        string        `json:"to"`
	Routes    []route.Route `json:"routes"`
	Count     int           `json:"count"`
	Total     int           `json:"total"`
	Cached    bool          `json:"cached"`
	Truncated bool          `json:"truncated"`
	Partial   bool          `json:"partial,omitempty"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	_, net := s.snapshot()
	if net == nil {
		writeError(w, r, unavailable())
		return
	}

	opts, err := s.routeOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.runner.Plan(r.Context(), net, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, routesResponse{
		ID:        uuid.NewString(),
		From:      res.From,
		To:        res.To,
		Routes:    res.Routes,
		Count:     len(res.Routes),
		Total:     res.Total,
		Cached:    res.CacheInfo.RoutesHit,
		Truncated: res.Truncated(),
		Partial:   res.Partial,
	})
}

// routeOptions reads /api/routes query parameters over the server defaults.
func (s *Server) routeOptions(r *http.Request) (planner.Options, error) {
	q := r.URL.Query()
	opts := planner.Options{
		From:    q.Get("from"),
		To:      q.Get("to"),
		Bounds:  s.opts.Bounds,
		Timeout: s.opts.Timeout,
		Refresh: q.Get("refresh") == "true",
		Logger:  s.opts.Logger,
	}
	if opts.From == "" || opts.To == "" {
		return opts, errors.New(errors.ErrCodeInvalidInput, "from and to are required")
	}

	var err error
	if opts.Limit, err = intParam(q.Get("limit"), "limit", s.opts.DisplayLimit, 1); err != nil {
		return opts, err
	}
	b := &opts.Bounds
	if b.MaxRoutes, err = intParam(q.Get("max_routes"), "max_routes", b.MaxRoutes, 1); err != nil {
		return opts, err
	}
	if b.MaxPathLength, err = intParam(q.Get("max_path_length"), "max_path_length", b.MaxPathLength, 1); err != nil {
		return opts, err
	}
	if raw := q.Get("max_interchanges"); raw != "" {
		n, err := intParam(raw, "max_interchanges", 0, 0)
		if err != nil {
			return opts, err
		}
		b.MaxInterchanges = route.AtMost(n)
	}
	return opts, nil
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	s.handleHealth(w, r)
}

// intParam parses an optional integer query parameter no smaller than min.
func intParam(raw, name string, def, min int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, raw)
	}
	if n < min {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be at least %d", name, min)
	}
	return n, nil
}

func unavailable() error {
	return errors.New(errors.ErrCodeDatasetUnavailable, "no dataset loaded")
}
