// Package server exposes the route planner as an HTTP API.
//
// Routes:
//
//	GET  /health                 dataset status
//	GET  /api/metro-data         the loaded dataset as JSON
//	GET  /api/stations?q=&limit= station search
//	GET  /api/stations/{code}    one station with its lines
//	GET  /api/routes?from=&to=   ranked alternative routes
//	POST /api/reload             re-read the dataset source
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// of the form {"error": msg, "code": CODE, "details": {...}}.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/dataset"
	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/planner"
	"github.com/meteo-transit/meteo/pkg/route"
	"github.com/meteo-transit/meteo/pkg/transit"
)

// Options configures the server.
type Options struct {
	Addr         string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Bounds, Timeout and DisplayLimit are the defaults for /api/routes.
	Bounds       route.Bounds
	Timeout      time.Duration
	DisplayLimit int

	// StationLimit caps /api/stations results when no limit is given.
	StationLimit int

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Addr == "" {
		o.Addr = ":3001"
	}
	if len(o.CORSOrigins) == 0 {
		o.CORSOrigins = []string{"*"}
	}
	if o.DisplayLimit <= 0 {
		o.DisplayLimit = route.DefaultDisplayLimit
	}
	if o.StationLimit <= 0 {
		o.StationLimit = network.DefaultSearchLimit
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Server serves one dataset source. The dataset is loaded by Reload and
// swapped atomically, so requests never see a half-built network.
type Server struct {
	runner *planner.Runner
	source dataset.Source
	opts   Options
	router chi.Router

	mu       sync.RWMutex
	ds       *transit.Dataset
	net      *network.Network
	loadedAt time.Time
	loadErr  error
}

// New creates a server that plans with runner over the dataset read from src.
// Call Reload before serving to load the dataset.
func New(runner *planner.Runner, src dataset.Source, opts Options) *Server {
	opts.setDefaults()
	s := &Server{runner: runner, source: src, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/metro-data", s.handleMetroData)
		r.Get("/stations", s.handleStations)
		r.Get("/stations/{code}", s.handleStation)
		r.Get("/routes", s.handleRoutes)
		r.Post("/reload", s.handleReload)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found", Code: "NOT_FOUND"})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Reload reads the dataset from the source and builds its network. On
// failure the previously loaded dataset stays in service.
func (s *Server) Reload(ctx context.Context) error {
	ds, err := s.source.Load(ctx)
	if err != nil {
		s.setLoadErr(err)
		return err
	}
	net, _, err := s.runner.NetworkWithCacheInfo(ctx, s.source.String(), ds)
	if err != nil {
		s.setLoadErr(err)
		return err
	}

	s.mu.Lock()
	s.ds, s.net, s.loadedAt, s.loadErr = ds, net, time.Now().UTC(), nil
	s.mu.Unlock()

	s.opts.Logger.Info("dataset loaded",
		"source", s.source,
		"stations", net.StationCount(),
		"lines", len(net.Lines()),
		"hash", cache.ShortHash(net.Hash()))
	return nil
}

func (s *Server) setLoadErr(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

func (s *Server) snapshot() (*transit.Dataset, *network.Network) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds, s.net
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.opts.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
