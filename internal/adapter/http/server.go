package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/crewdesk/crewdesk/internal/infra/logger"
)

// Server represents the HTTP server
type Server struct {
	addr   string
	server *http.Server
	logger logger.Logger
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// NewRouter wires handlers onto a mux router and wraps it in middleware.
// The middleware wraps the whole router so preflight, 404 and 405
// responses are logged and carry CORS and correlation headers.
func NewRouter(config ServerConfig, ftlUseCase FTLUseCase, entryUseCase EntryUseCase, log logger.Logger) http.Handler {
	router := mux.NewRouter()

	NewFTLHandler(ftlUseCase).RegisterRoutes(router)
	NewEntryHandler(entryUseCase).RegisterRoutes(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusNotFound, "not_found", "Route not found")
	})

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	var handler http.Handler = router
	handler = recoveryMiddleware(log)(handler)
	handler = corsMiddleware(config.CORSOrigins)(handler)
	handler = loggingMiddleware(log)(handler)
	handler = correlationMiddleware(handler)

	return handler
}

// NewServer creates a new HTTP server
func NewServer(config ServerConfig, ftlUseCase FTLUseCase, entryUseCase EntryUseCase, log logger.Logger) *Server {
	addr := config.Host + ":" + config.Port

	return &Server{
		addr:   addr,
		logger: log,
		server: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(config, ftlUseCase, entryUseCase, log),
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "starting HTTP server", map[string]interface{}{"addr": s.addr})
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
