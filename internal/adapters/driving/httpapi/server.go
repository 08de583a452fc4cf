package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// Ports holds the services the API exposes. Auth may be nil, in which
// case every write route answers 401.
type Ports struct {
	Records  driving.RecordService
	Activity driving.ActivityService
	Billing  driving.BillingService
	Settings driving.SettingsService
	Auth     driving.AuthService
}

// Server serves the JSON API.
type Server struct {
	ports  Ports
	router chi.Router
}

// NewServer builds the router for the given ports.
func NewServer(ports Ports) (*Server, error) {
	if ports.Records == nil || ports.Settings == nil {
		return nil, errors.New("httpapi: records and settings services are required")
	}
	s := &Server{ports: ports}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(MaxBody(MaxBodyBytes))
	r.Use(Authenticate(s.ports.Auth))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sheets", s.handleSheets)
		r.Get("/sheets/{sheet}/records", s.handleListRecords)
		r.Get("/sheets/{sheet}/billing", s.handleBilling)
		r.Get("/classify", s.handleClassify)
		r.Get("/activity", s.handleActivity)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/me", s.handleMe)
			r.Post("/sheets/{sheet}/records", s.handleAppendRow)
			r.Patch("/sheets/{sheet}/records/{row}", s.handleUpdateCell)
			r.Delete("/sheets/{sheet}/records/{row}", s.handleDeleteRow)
			r.Post("/sheets/{sheet}/refresh", s.handleRefresh)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	return r
}

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 10 * time.Second

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}
