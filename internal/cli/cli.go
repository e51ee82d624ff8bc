package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/meteo-transit/meteo/pkg/buildinfo"
	"github.com/meteo-transit/meteo/pkg/cache"
	"github.com/meteo-transit/meteo/pkg/config"
	"github.com/meteo-transit/meteo/pkg/dataset"
	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/observability"
	"github.com/meteo-transit/meteo/pkg/planner"
	"github.com/meteo-transit/meteo/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "meteo"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	flags globalFlags
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose    bool
	configPath string
	dataFile   string
	dataURL    string
	store      string
	dataset    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Meteo plans routes across metro networks",
		Long: `Meteo builds a graph from a metro dataset (lines, stations and branches)
and lists alternative routes between two stations, ranked by the number of
interchanges and then by the number of stops.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default ~/.config/meteo/config.toml)")
	pf.StringVar(&c.flags.dataFile, "data", "", "dataset file (.json, .yaml)")
	pf.StringVar(&c.flags.dataURL, "data-url", "", "dataset URL")
	pf.StringVar(&c.flags.store, "store", "", "dataset store backend: sqlite, mongo")
	pf.StringVar(&c.flags.dataset, "dataset", "", "name of a stored dataset")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.stationsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.datasetsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the global flags on top of it and
// attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return err
	}
	c.applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.Log.ParseLevel()
	if c.flags.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	if level == log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// applyFlags lets command-line flags override file and env settings.
// A data flag clears the other data settings so it is the one used.
func (c *CLI) applyFlags(cfg *config.Config) {
	f := c.flags
	switch {
	case f.dataFile != "":
		cfg.Data = config.DataConfig{File: f.dataFile}
	case f.dataURL != "":
		cfg.Data = config.DataConfig{URL: f.dataURL}
	case f.dataset != "":
		cfg.Data = config.DataConfig{Dataset: f.dataset}
	}
	if f.store != "" {
		cfg.Store.Backend = f.store
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a planner runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*planner.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return planner.NewRunner(ch, c.Config.Keyer(), c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := c.Config.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", c.Config.Cache.Backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// session bundles what a command needs to plan on the configured dataset.
type session struct {
	runner *planner.Runner
	store  store.Store
	source dataset.Source
}

// openSession opens the cache, and the store when the dataset lives there.
func (c *CLI) openSession(ctx context.Context, noCache bool) (*session, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	s := &session{runner: runner}
	if c.Config.NeedsStore() {
		st, err := c.Config.OpenStore(ctx)
		if err != nil {
			runner.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.store = st
	}
	s.source = dataset.NewSource(c.Config.SourceOptions(s.store, runner.Cache))
	return s, nil
}

// network loads the dataset and builds its network.
func (s *session) network(ctx context.Context) (*network.Network, error) {
	return s.runner.Load(ctx, s.source)
}

func (s *session) Close() error {
	if s.store != nil {
		s.store.Close()
	}
	return s.runner.Close()
}
