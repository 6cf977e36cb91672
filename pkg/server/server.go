// Package server exposes analysed sessions over HTTP.
//
// Clients upload a pipdeptree JSON document, which is built into a graph and
// annotated with licenses once. The resulting session is then queried any
// number of times without further registry traffic:
//
//	POST   /sessions?name=env          upload pipdeptree JSON, 201 + session info
//	GET    /sessions                   list sessions
//	GET    /sessions/{id}              session info
//	PUT    /sessions/{id}              re-upload, replaces the graph
//	DELETE /sessions/{id}              delete
//	GET    /sessions/{id}/graph        serialized graph (JSON)
//	GET    /sessions/{id}/licenses     license counts
//	GET    /sessions/{id}/analysis     ?blacklist=A&blacklist=B
//	GET    /sessions/{id}/graph.dot    ?blacklist=...&hide_blacklisted&hide_dependents
//	GET    /sessions/{id}/graph.svg    same parameters as graph.dot
//	GET    /healthz                    build info
//
// Errors are JSON objects {"code": ..., "message": ...} using the codes of
// package errors.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/licensetower/pkg/pipeline"
	"github.com/matzehuels/licensetower/pkg/session"
)

const (
	// DefaultMaxUploadBytes caps the size of an uploaded pipdeptree document.
	DefaultMaxUploadBytes = 10 << 20

	// DefaultRequestTimeout bounds a single request, including the registry
	// lookups of an upload.
	DefaultRequestTimeout = 5 * time.Minute

	// DefaultSessionName is used when an upload carries no name.
	DefaultSessionName = "upload"

	shutdownTimeout = 10 * time.Second
)

// Config holds server settings. Zero values select the defaults.
type Config struct {
	MaxUploadBytes int64
	RequestTimeout time.Duration

	// RootLabel is the display label of the root node in rendered graphs.
	RootLabel string

	// Pipeline holds the build options applied to every upload.
	Pipeline pipeline.Options
}

func (c Config) withDefaults() Config {
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return c
}

// Server serves sessions from a store.
type Server struct {
	runner *pipeline.Runner
	store  session.Store
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New creates a server. Uploads are processed by runner and persisted in
// store. If logger is nil, the runner's logger is used.
func New(runner *pipeline.Runner, store session.Store, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner: runner,
		store:  store,
		logger: logger,
		cfg:    cfg.withDefaults(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleReplace)
			r.Delete("/", s.handleDelete)
			r.Get("/graph", s.handleGraph)
			r.Get("/graph.dot", s.handleRender(pipeline.FormatDOT))
			r.Get("/graph.svg", s.handleRender(pipeline.FormatSVG))
			r.Get("/licenses", s.handleLicenses)
			r.Get("/analysis", s.handleAnalysis)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(writeMethodNotAllowed)
	return r
}

// logRequests logs one line per request at debug level, and server errors
// at error level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", fields...)
			return
		}
		s.logger.Debug("request", fields...)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
