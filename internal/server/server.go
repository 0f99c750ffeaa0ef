// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"spykes/internal/config"
	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
	"spykes/internal/server/handlers"
	"spykes/internal/service/shortlist"
)

// Store is the read side the API serves from
type Store interface {
	trend.Reader
	influencer.Reader
	handlers.Pinger
}

// Deps are the collaborators the router is built from
type Deps struct {
	Store       Store
	Shortlist   *shortlist.Service
	NATS        *nats.Conn // nil disables /ws/trends
	EventsTopic string
	Log         *zap.SugaredLogger
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	router := NewRouter(cfg, deps)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// NewRouter builds the route tree
func NewRouter(cfg config.ServerConfig, deps Deps) *chi.Mux {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(deps.Log))
	router.Use(prometheusMetrics)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	trendHandler := handlers.NewTrendHandler(deps.Store, deps.Store)
	influencerHandler := handlers.NewInfluencerHandler(deps.Store)
	shortlistHandler := handlers.NewShortlistHandler(deps.Shortlist)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/health", handlers.Health(deps.Store))

		r.Route("/trends", func(r chi.Router) {
			r.Get("/", trendHandler.ListTrends)
			r.Get("/{slug}", trendHandler.GetTrend)
			r.Get("/{slug}/influencers", trendHandler.GetTrendInfluencers)
		})

		r.Route("/influencers", func(r chi.Router) {
			r.Get("/", influencerHandler.ListInfluencers)
			r.Get("/{handle}", influencerHandler.GetInfluencer)
		})

		r.Route("/shortlist", func(r chi.Router) {
			r.Get("/", shortlistHandler.ListShortlist)
			r.Post("/", shortlistHandler.AddToShortlist)
		})
	})

	// Live feed of ingestion events
	router.Get("/ws/trends", handlers.TrendWebSocketHandler(deps.NATS, deps.EventsTopic))

	router.Handle("/metrics", promhttp.Handler())

	return router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
