// Package server wires the stores, services and handlers into an HTTP
// router and runs it with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/auth"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/config"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/handler"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/middleware"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/service"
)

// Server owns the store and the router built on top of it.
type Server struct {
	router    *chi.Mux
	config    *config.Config
	logger    *slog.Logger
	store     repository.Store
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	registry  *prometheus.Registry
	now       func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces the clock used for the booking date check.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithPasswordService replaces the bcrypt settings used for login.
func WithPasswordService(p *auth.PasswordService) Option {
	return func(s *Server) { s.passwords = p }
}

// New builds the router. The server takes ownership of store and closes it
// when Start returns.
func New(cfg *config.Config, store repository.Store, logger *slog.Logger, opts ...Option) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		store:     store,
		tokens:    tokens,
		passwords: auth.NewPasswordService(),
		registry:  prometheus.NewRegistry(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Tokens is the service that signs and checks access tokens.
func (s *Server) Tokens() *auth.TokenService {
	return s.tokens
}

func (s *Server) setupRoutes() {
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(s.registry)

	// MIDDLEWARE ORDER: request id first so every later layer can log it.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(metrics.Instrument)
	s.router.Use(cors.Handler(corsOptions(s.config.CORSOrigins)))

	sponsorService := service.NewSponsorService(s.store, s.logger)
	bookingService := service.NewBookingService(s.store, s.store, s.logger, service.WithClock(s.now))
	adminService := service.NewAdminService(s.store, s.tokens, s.passwords, s.logger)

	sponsorHandler := handler.NewSponsorHandler(sponsorService, s.logger)
	bookingHandler := handler.NewBookingHandler(bookingService, s.logger)
	adminHandler := handler.NewAdminHandler(adminService, s.logger)

	s.router.Get("/health", handler.HandleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// PUBLIC
	s.router.Post("/sponsors", sponsorHandler.HandleCreate)
	s.router.Post("/bookings", bookingHandler.HandleCreate)
	s.router.Get("/bookings", bookingHandler.HandleSchedule)

	// ADMIN
	s.router.Route("/admin", func(r chi.Router) {
		r.Post("/login", adminHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(s.tokens, s.store, s.logger))
			r.Get("/bookings", bookingHandler.HandleList)
			r.Delete("/bookings/{id}", bookingHandler.HandleCancel)
		})
	})
}

func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		// Browsers refuse credentials with a wildcard origin.
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	}
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled. The store is closed on return.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.config.Addr),
			slog.Bool("postgres", s.config.IsPostgres()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
