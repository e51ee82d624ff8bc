package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meteo-transit/meteo/internal/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /health
  GET  /api/metro-data
  GET  /api/stations?q=&limit=
  GET  /api/stations/{code}
  GET  /api/routes?from=&to=&limit=&max_routes=&max_path_length=&max_interchanges=
  POST /api/reload

The server starts even when the dataset cannot be loaded; /health then
reports 503 until a POST /api/reload succeeds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :3001)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	s, err := c.openSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	logger := loggerFromContext(ctx)
	cfg := c.Config
	srv := server.New(s.runner, s.source, server.Options{
		Addr:         cfg.Server.Addr,
		CORSOrigins:  cfg.Server.CORSOrigins,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Bounds:       cfg.Search.Bounds,
		Timeout:      cfg.Search.Timeout,
		DisplayLimit: cfg.Search.DisplayLimit,
		StationLimit: cfg.Search.StationLimit,
		Logger:       logger,
	})
	if err := srv.Reload(ctx); err != nil {
		logger.Warn("dataset not loaded", "source", s.source, "err", err)
	}

	printKeyValue("Dataset", s.source.String())
	printKeyValue("Cache", cfg.Cache.Backend)
	printKeyValue("API", StyleLink.Render(listenURL(cfg.Server.Addr)))
	printNewline()
	return srv.ListenAndServe(ctx)
}

// listenURL turns a listen address such as ":3001" into a clickable URL.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
