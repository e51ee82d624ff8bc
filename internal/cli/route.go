package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/meteo-transit/meteo/pkg/planner"
	"github.com/meteo-transit/meteo/pkg/route"
)

// routeOpts holds the command-line flags for the route command.
type routeOpts struct {
	limit       int
	all         bool
	jsonOut     bool
	interactive bool
	noCache     bool
	refresh     bool

	maxInterchanges int
}

// routeCommand creates the route command for planning between two stations.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts
	popts := planner.Options{}

	cmd := &cobra.Command{
		Use:   "route FROM TO",
		Short: "List ranked routes between two stations",
		Long: `List alternative routes between two stations.

Routes are found by a bounded depth-first search over the network and ranked
by the number of interchanges, then by the number of stops. Station codes are
case sensitive; use 'meteo stations' to look them up.

Ranked results are cached, keyed by the dataset and the search bounds.`,
		Example: `  meteo route KSHG MDHS
  meteo route KSHG MDHS --limit 5 --max-interchanges 2
  meteo route KSHG MDHS --json
  meteo route KSHG MDHS --interactive`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: c.completeStations,
		PreRun: func(cmd *cobra.Command, args []string) {
			c.applySearchDefaults(cmd, &popts, &opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			popts.From, popts.To = args[0], args[1]
			return c.runRoute(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), popts, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "number of routes to show (default from config, 3)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "show every route found")
	cmd.Flags().IntVar(&popts.Bounds.MaxRoutes, "max-routes", 0, "stop searching after this many routes (default 20)")
	cmd.Flags().IntVar(&popts.Bounds.MaxPathLength, "max-path-length", 0, "longest path explored, in stations (default 50)")
	cmd.Flags().IntVar(&opts.maxInterchanges, "max-interchanges", 0, "most line changes explored, 0 for direct routes (default 5)")
	cmd.Flags().DurationVar(&popts.Timeout, "timeout", 0, "search time limit (default from config, 5s)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print routes as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse routes interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached routes")

	return cmd
}

// applySearchDefaults fills unset flags from the [search] config section.
func (c *CLI) applySearchDefaults(cmd *cobra.Command, popts *planner.Options, opts *routeOpts) {
	s := c.Config.Search
	flags := cmd.Flags()
	if !flags.Changed("max-routes") {
		popts.Bounds.MaxRoutes = s.Bounds.MaxRoutes
	}
	if !flags.Changed("max-path-length") {
		popts.Bounds.MaxPathLength = s.Bounds.MaxPathLength
	}
	if flags.Changed("max-interchanges") {
		popts.Bounds.MaxInterchanges = route.AtMost(opts.maxInterchanges)
	} else {
		popts.Bounds.MaxInterchanges = s.Bounds.MaxInterchanges
	}
	if !flags.Changed("timeout") {
		popts.Timeout = s.Timeout
	}
	switch {
	case opts.all:
		popts.Limit = -1
	case flags.Changed("limit"):
		popts.Limit = opts.limit
	default:
		popts.Limit = s.DisplayLimit
	}
	popts.Refresh = opts.refresh
}

// runRoute loads the network, plans and prints the routes.
func (c *CLI) runRoute(ctx context.Context, out, errOut io.Writer, popts planner.Options, opts routeOpts) error {
	s, err := c.openSession(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer s.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spinner := newSpinner(ctx, errOut, "Loading network...")
	if !opts.jsonOut && !opts.interactive {
		spinner.Start()
	}
	defer spinner.Stop()

	net, err := s.network(ctx)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}
	prog.loaded(net)

	spinner.Update(fmt.Sprintf("Searching %s %s %s...", popts.From, iconArrow, popts.To))
	popts.Logger = logger
	res, err := s.runner.Plan(ctx, net, popts)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("plan route: %w", err)
	}
	logger.Debug("search finished", "total", res.Total, "cached", res.CacheInfo.RoutesHit, "partial", res.Partial)

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if opts.interactive {
		title := fmt.Sprintf("Routes %s %s %s", popts.From, iconArrow, popts.To)
		_, err := tea.NewProgram(NewRouteBrowserModel(title, res.Routes)).Run()
		return err
	}

	prog.found(res)
	printStats(res.Stats.Stations, res.Stats.Edges, res.CacheInfo.RoutesHit)
	printNewline()
	printRoutes(res.Routes)
	if res.Partial {
		printNewline()
		printWarning("Search timed out; showing the routes found so far")
	}
	if res.Truncated() {
		printNewline()
		printNextStep(fmt.Sprintf("%d more", res.Total-len(res.Routes)), fmt.Sprintf("meteo route %s %s --all", popts.From, popts.To))
	}
	return nil
}
