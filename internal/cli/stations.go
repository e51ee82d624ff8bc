package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/meteo-transit/meteo/pkg/network"
)

// stationsCommand creates the stations command for searching stations.
func (c *CLI) stationsCommand() *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "stations QUERY",
		Short: "Search stations by name or code",
		Long: `Search stations by name or code.

Matching is a case-insensitive substring match. Results follow dataset order
and list the lines serving each station.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = c.Config.Search.StationLimit
			}
			return c.runStations(cmd.Context(), cmd.OutOrStdout(), args[0], limit, jsonOut)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", network.DefaultSearchLimit, "maximum number of matches")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print matches as JSON")

	return cmd
}

func (c *CLI) runStations(ctx context.Context, out io.Writer, query string, limit int, jsonOut bool) error {
	s, err := c.openSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	net, err := s.network(ctx)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}

	matches := net.Search(query, limit)
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		printWarning("No station matches %q", query)
		return nil
	}
	fmt.Fprintln(out, formatStations(matches))
	return nil
}
