package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/finsight/finsight/internal/config"
)

// Server is the read-only HTTP API over analysis artifacts
type Server struct {
	router   *mux.Router
	server   *http.Server
	handlers *Handlers
	stream   *StreamHub
	config   config.ServerConfig
}

// NewServer creates the HTTP server with routes and middleware wired
func NewServer(cfg config.ServerConfig, handlers *Handlers, stream *StreamHub) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		handlers: handlers,
		stream:   stream,
		config:   cfg,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/health", s.handlers.Health).Methods("GET")
	s.router.HandleFunc("/report", s.handlers.Report).Methods("GET")
	s.router.HandleFunc("/sentiment", s.handlers.SentimentSummary).Methods("GET")
	s.router.HandleFunc("/sentiment/{symbol}", s.handlers.SentimentBySymbol).Methods("GET")
	s.router.HandleFunc("/articles/{symbol}", s.handlers.ArticlesBySymbol).Methods("GET")
	s.router.HandleFunc("/stocks", s.handlers.StockSentiment).Methods("GET")
	s.router.HandleFunc("/runs", s.handlers.Runs).Methods("GET")
	s.router.HandleFunc("/runs", s.handlers.TriggerRun).Methods("POST")

	if s.stream != nil {
		s.router.HandleFunc("/ws/runs", s.stream.ServeWS).Methods("GET")
	}

	s.router.NotFoundHandler = http.HandlerFunc(s.handlers.NotFound)
}

// Start runs the server until the context is canceled
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		log.Info().Msg("HTTP server stopped")
		return nil
	}
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
