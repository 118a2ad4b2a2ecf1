// Package httpapi exposes the order, task and template operations as a
// JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/domain"
)

const shutdownTimeout = 5 * time.Second

// Server serves the JSON API.
type Server struct {
	container *app.Container
	logger    domain.Logger
	router    *mux.Router
}

// NewServer creates a Server backed by the container's use cases.
func NewServer(c *app.Container) *Server {
	logger := c.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	s := &Server{
		container: c,
		logger:    logger,
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(s.logMiddleware)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/orders", s.listOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.createOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", s.showOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", s.deleteOrder).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{id}/status", s.updateOrderStatus).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{id}/items", s.addOrderItem).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/items/{itemID}", s.updateOrderItem).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{id}/items/{itemID}", s.removeOrderItem).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{id}/derive", s.deriveTasks).Methods(http.MethodPost)

	api.HandleFunc("/tasks", s.listTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.createTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", s.showTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}/status", s.moveTask).Methods(http.MethodPatch)

	api.HandleFunc("/templates", s.listTemplates).Methods(http.MethodGet)
	api.HandleFunc("/templates", s.createTemplate).Methods(http.MethodPost)
	api.HandleFunc("/templates/{id}", s.deleteTemplate).Methods(http.MethodDelete)

	api.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", s.createProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}/tasks", s.listProductTasks).Methods(http.MethodGet)
	api.HandleFunc("/ingredients", s.listIngredients).Methods(http.MethodGet)
	api.HandleFunc("/ingredients", s.createIngredient).Methods(http.MethodPost)
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("", "http", "listening on "+ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("", "http", "server stopped")
		return nil
	})
	return g.Wait()
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		msg := fmt.Sprintf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
		switch {
		case rec.status >= http.StatusInternalServerError:
			s.logger.Error("", "http", msg)
		default:
			s.logger.Info("", "http", msg)
		}
	})
}

type nopLogger struct{}

func (nopLogger) Debug(_, _, _ string) {}
func (nopLogger) Info(_, _, _ string)  {}
func (nopLogger) Warn(_, _, _ string)  {}
func (nopLogger) Error(_, _, _ string) {}
