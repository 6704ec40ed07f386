// Package api serves the fallback resolver over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /v1/artifacts/{coordinate}
//	GET /v1/versions/{coordinate}
//	GET /v1/depmap/{coordinate}
//
// Every request is tagged with a trace ID that is returned in the
// X-Trace-Id header and passed to the engine as the request trace.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fossrepo/pkg/errors"
	"github.com/matzehuels/fossrepo/pkg/remap"
	"github.com/matzehuels/fossrepo/pkg/repository"
)

// Config configures a [Server].
type Config struct {
	System *repository.System
	// Depmap backs the depmap route. Nil disables it.
	Depmap *remap.Lazy
	// Session returns the session a request runs in. It is called once per
	// request and is required.
	Session func() *repository.Session
	// Timeout bounds each request. Defaults to 30 seconds.
	Timeout time.Duration
	Logger  *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	sys     *repository.System
	depmap  *remap.Lazy
	session func() *repository.Session
	timeout time.Duration
	logger  *log.Logger
}

// New returns a server over cfg. System and Session are required.
func New(cfg Config) (*Server, error) {
	if cfg.System == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "api: no system configured")
	}
	if cfg.Session == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "api: no session factory configured")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		sys:     cfg.System,
		depmap:  cfg.Depmap,
		session: cfg.Session,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.trace)
	r.Use(s.logRequests)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/artifacts/{coordinate}", s.resolveArtifact)
		r.Get("/versions/{coordinate}", s.resolveVersions)
		r.Get("/depmap/{coordinate}", s.lookupDepmap)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
