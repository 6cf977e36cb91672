package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/licensetower/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Annotated 42 packages (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks writes pipeline, cache and registry events to a logger at debug
// level.
type logHooks struct {
	logger *log.Logger
}

// bindHooks registers logHooks for every hook kind.
func bindHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnBuildStart(_ context.Context, records int) {
	h.logger.Debug("build start", "records", records)
}

func (h logHooks) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration) {
	h.logger.Debug("build complete", "nodes", nodes, "edges", edges, "duration", d)
}

func (h logHooks) OnAnnotateStart(_ context.Context, nodes int) {
	h.logger.Debug("annotate start", "nodes", nodes)
}

func (h logHooks) OnAnnotateComplete(_ context.Context, nodes, unknown int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("annotate aborted", "nodes", nodes, "duration", d, "err", err)
		return
	}
	h.logger.Debug("annotate complete", "nodes", nodes, "unknown", unknown, "duration", d)
}

func (h logHooks) OnAnalyzeComplete(_ context.Context, blacklisted, dependents int, d time.Duration) {
	h.logger.Debug("analyze complete", "blacklisted", blacklisted, "dependents", dependents, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, key string)  { h.logger.Debug("cache hit", "key", key) }
func (h logHooks) OnCacheMiss(_ context.Context, key string) { h.logger.Debug("cache miss", "key", key) }

func (h logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
	_ observability.HTTPHooks     = logHooks{}
)
