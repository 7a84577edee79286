package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/rl/internal/httpserver/deps"
	"github.com/nikbrunner/rl/internal/httpserver/handlers"
	"github.com/nikbrunner/rl/internal/httpserver/mw"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http   *http.Server
	logger logrus.FieldLogger
}

// NewRouter builds the router with middlewares and every route.
func NewRouter(d deps.Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	// captures may wait on a metadata fetch
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(mw.Log(d.Logger))

	r.Get("/healthz", handlers.Healthz(d))

	r.Route("/api", func(r chi.Router) {
		r.Post("/share", handlers.Capture(d))
		r.Get("/inbox", handlers.InboxStatus(d))

		r.Route("/items", func(r chi.Router) {
			r.Post("/", handlers.Capture(d))
			r.Get("/", handlers.ListItems(d))
			r.Get("/{id}", handlers.GetItem(d))
			r.Post("/{id}/move", handlers.MoveItem(d))
			r.Delete("/{id}", handlers.DeleteItem(d))
		})
	})

	return r
}

// New builds the HTTP server listening on addr.
func New(addr string, d deps.Deps) *Server {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	if d.StartTime.IsZero() {
		d.StartTime = time.Now()
	}

	s := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{http: s, logger: d.Logger}
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down...")
	return s.http.Shutdown(ctx)
}
