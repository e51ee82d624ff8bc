package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failed builds
// and searches are logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetPlannerHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnBuildStart(_ context.Context, source string) {
	h.Logger.Debug("building network", "source", source)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, source string, stations, edges int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("network build failed", "source", source, "err", err)
		return
	}
	h.Logger.Debug("network built", "source", source, "stations", stations, "edges", edges, "took", d)
}

func (h *LogHooks) OnSearchStart(_ context.Context, from, to string) {
	h.Logger.Debug("searching routes", "from", from, "to", to)
}

func (h *LogHooks) OnSearchComplete(_ context.Context, from, to string, routes int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("route search failed", "from", from, "to", to, "err", err)
		return
	}
	h.Logger.Debug("routes found", "from", from, "to", to, "routes", routes, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}

var (
	_ PlannerHooks = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
	_ HTTPHooks    = (*LogHooks)(nil)
)
