// Package cli implements the meteo command-line interface.
//
// This package provides commands for planning routes, searching stations,
// rendering network diagrams, managing stored datasets and running the HTTP
// API. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - route: List ranked routes between two stations
//   - stations: Search stations by name or code
//   - render: Export the network or a route as DOT, SVG, PDF or PNG
//   - import, export, datasets: Manage datasets in the store
//   - serve: Run the HTTP API
//   - cache: Manage the local cache
//
// # Configuration
//
// Settings are read from --config (TOML), .env files and METEO_* variables.
// The --data, --data-url and --dataset flags override the dataset source.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/meteo-transit/meteo/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meteo-transit/meteo/pkg/network"
	"github.com/meteo-transit/meteo/pkg/planner"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Found 12 routes (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// loaded logs the size of a freshly built network at debug level.
func (p *progress) loaded(net *network.Network) {
	p.logger.Debug(networkMessage(net), "elapsed", time.Since(p.start).Round(time.Millisecond))
}

// found logs the outcome of a search with its duration.
func (p *progress) found(res *planner.Result) {
	p.done(routesMessage(res))
}

func networkMessage(net *network.Network) string {
	return fmt.Sprintf("Loaded %s on %s", plural(net.StationCount(), "station"), plural(len(net.Lines()), "line"))
}

func routesMessage(res *planner.Result) string {
	msg := "Found " + plural(res.Total, "route")
	switch {
	case res.Partial:
		msg += " before the time limit"
	case res.CacheInfo.RoutesHit:
		msg += " (cached)"
	}
	return msg
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
