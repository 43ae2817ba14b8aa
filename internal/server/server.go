package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/esign-demos/embedded-signing/app/internal/config"
	"github.com/esign-demos/embedded-signing/app/internal/esign"
	"github.com/esign-demos/embedded-signing/app/internal/logger"
	"github.com/esign-demos/embedded-signing/app/internal/server/handlers"
	appmiddleware "github.com/esign-demos/embedded-signing/app/internal/server/middleware"
	"github.com/esign-demos/embedded-signing/app/internal/version"
)

type Server struct {
	config   *config.ServerEnvironment
	logger   *slog.Logger
	router   *chi.Mux
	ceremony *CeremonyHandler
}

func NewServer(
	cfg *config.ServerEnvironment,
	appLogger *slog.Logger,
) *Server {
	baseURL := config.ResolveBaseURL(cfg.BaseURL, cfg.ProjectDomain, cfg.Host, cfg.Port)

	// The clientUserId ties the envelope's signer to the recipient view and
	// marks the ceremony as embedded. Generated once per process when not
	// configured.
	clientUserID := cfg.ClientUserID
	if clientUserID == "" {
		clientUserID = uuid.NewString()
	}

	client := esign.NewClient(cfg.APIBasePath, cfg.AccessToken, cfg.APICallTimeout, appLogger)

	server := &Server{
		config:   cfg,
		logger:   appLogger,
		router:   chi.NewRouter(),
		ceremony: NewCeremonyHandler(cfg, client, baseURL, clientUserID),
	}

	appLogger.Info("base URL resolved",
		slog.String("base_url", baseURL),
		slog.String("return_url", baseURL+"/dsreturn"),
	)

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(appmiddleware.SecurityHeaders(s.config.Environment))
	s.router.Use(appmiddleware.RequestSizeLimit(s.config.MaxRequestSize))
	s.router.Use(appmiddleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.ceremony.HandleLanding)
	s.router.Post("/", s.ceremony.HandleStartCeremony)
	s.router.Get("/dsreturn", s.ceremony.HandleReturn)

	s.router.Get("/health", handlers.HandleHealth)

	v := version.Get()
	s.router.Get("/version", handlers.HandleVersion(v.Version, v.GitCommit, v.BuildDate))
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
