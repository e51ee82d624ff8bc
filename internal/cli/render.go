package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/planner"
	"github.com/meteo-transit/meteo/pkg/render"
)

// renderOpts holds the command-line flags for the render commands.
type renderOpts struct {
	output     string // output file; stdout when empty
	format     string // dot, svg, pdf, png
	detailed   bool   // add codes and depth to labels
	geographic bool   // pin stations to their coordinates
}

// renderCommand creates the render command with network and route subcommands.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(render.FormatSVG)}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export the network or a route as a Graphviz diagram",
		Long: `Export the network or a route as a Graphviz diagram.

Formats dot and svg need nothing else installed. pdf and png are converted
from SVG with rsvg-convert (librsvg).`,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	pf.StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg (default), pdf, png")
	pf.BoolVar(&opts.detailed, "detailed", false, "show station codes and depth")
	pf.BoolVar(&opts.geographic, "geo", false, "place stations by latitude/longitude")

	cmd.AddCommand(c.renderNetworkCommand(&opts))
	cmd.AddCommand(c.renderRouteCommand(&opts))

	return cmd
}

func (c *CLI) renderNetworkCommand(opts *renderOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Render the whole network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, func(ctx context.Context, s *session, net *network.Network, ro render.Options) (string, error) {
				return render.NetworkDOT(net, ro), nil
			})
		},
	}
}

func (c *CLI) renderRouteCommand(opts *renderOpts) *cobra.Command {
	var rank int

	cmd := &cobra.Command{
		Use:   "route FROM TO",
		Short: "Render the network with one ranked route highlighted",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: c.completeStations,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, func(ctx context.Context, s *session, net *network.Network, ro render.Options) (string, error) {
				res, err := s.runner.Plan(ctx, net, planner.Options{
					From:    args[0],
					To:      args[1],
					Bounds:  c.Config.Search.Bounds,
					Timeout: c.Config.Search.Timeout,
					Limit:   -1,
				})
				if err != nil {
					return "", err
				}
				if len(res.Routes) == 0 {
					return "", fmt.Errorf("no route from %s to %s", args[0], args[1])
				}
				if rank < 1 || rank > len(res.Routes) {
					return "", fmt.Errorf("--rank must be between 1 and %d", len(res.Routes))
				}
				return render.RouteDOT(net, res.Routes[rank-1], ro), nil
			})
		},
	}

	cmd.Flags().IntVar(&rank, "rank", 1, "which ranked route to highlight")
	return cmd
}

type dotBuilder func(ctx context.Context, s *session, net *network.Network, ro render.Options) (string, error)

// runRender loads the network, builds DOT and writes it in the chosen format.
func (c *CLI) runRender(ctx context.Context, out, errOut io.Writer, opts *renderOpts, build dotBuilder) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	s, err := c.openSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	net, err := s.network(ctx)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}

	dot, err := build(ctx, s, net, render.Options{Detailed: opts.detailed, Geographic: opts.geographic})
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, errOut, fmt.Sprintf("Rendering %s...", format))
	if format != render.FormatDOT {
		spinner.Start()
	}
	data, err := render.Render(ctx, dot, format)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if opts.output == "" {
		_, err := out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s", format)
	printFile(opts.output)
	return nil
}
