// Package server wires the dependency graph and owns the HTTP lifecycle.
//
// COMPOSITION ROOT:
// Everything is assembled here, in one place:
//
//	flatfile.Store → entity repositories → services → handlers → routes
//
// Each layer only receives what it needs — services get repository
// interfaces, handlers get services, nothing reaches past its neighbor.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/gifboard/internal/auth"
	"github.com/sakif/gifboard/internal/handler"
	"github.com/sakif/gifboard/internal/middleware"
	"github.com/sakif/gifboard/internal/repository/flatfile"
	"github.com/sakif/gifboard/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DataDir   string // directory holding the CSV tables
	MediaDir  string // directory holding uploaded GIFs, served at /photos
	JWTSecret string // process-wide signing secret, required
}

// Server is the HTTP server and its dependency graph.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
}

// New builds the full application: store, repositories, services, handlers,
// routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	store, err := flatfile.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	passwords := auth.NewPasswordService()

	// The code cache is process-wide state: created here at startup,
	// discarded at exit, never persisted.
	codes := auth.NewCodeCache()

	identityService := service.NewIdentityService(store.Users(), tokens, passwords, codes, logger)
	feedService := service.NewFeedService(store.Photos(), store.Comments(), store.Votes(), logger)
	pollService := service.NewPollService(store.Polls(), store.PollVotes(), logger)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}
	s.setupRoutes(
		handler.NewIdentityHandler(identityService, logger),
		handler.NewPhotoHandler(feedService, cfg.MediaDir, logger),
		handler.NewPollHandler(pollService, logger),
		tokens,
	)
	return s, nil
}

// setupRoutes mirrors the feed's public API:
//
//	POST /api/register                     → create account, issue token
//	POST /api/login                        → issue token
//	POST /api/password-reset/request       → issue one-time code
//	POST /api/password-reset/confirm       → verify code, set password
//	GET  /api/photos                       → list photos
//	GET  /api/photos/{id}                  → photo + comments + tallies
//	POST /api/photos                (auth) → upload GIF, create record
//	POST /api/photos/{id}/comments  (auth) → add comment
//	POST /api/photos/{id}/vote      (auth) → cast/replace up-down vote
//	GET  /api/polls/current                → this week's poll
//	POST /api/polls                        → create poll for a week
//	POST /api/polls/{id}/vote       (auth) → cast yes/no vote
//	GET  /api/polls/{id}/user-vote  (auth) → caller's recorded choice
//	GET  /photos/*                         → stored GIF media
func (s *Server) setupRoutes(
	identity *handler.IdentityHandler,
	photos *handler.PhotoHandler,
	polls *handler.PollHandler,
	tokens *auth.TokenService,
) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Uploaded media, named {photoId}.gif.
	fileServer := http.FileServer(http.Dir(s.config.MediaDir))
	s.router.Handle("/photos/*", http.StripPrefix("/photos/", fileServer))

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", identity.HandleRegister)
		r.Post("/login", identity.HandleLogin)
		r.Post("/password-reset/request", identity.HandleRequestReset)
		r.Post("/password-reset/confirm", identity.HandleConfirmReset)

		r.Get("/photos", photos.HandleList)
		r.Get("/photos/{id}", photos.HandleGet)

		r.Get("/polls/current", polls.HandleCurrent)
		r.Post("/polls", polls.HandleCreate)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Post("/photos", photos.HandleUpload)
			r.Post("/photos/{id}/comments", photos.HandleComment)
			r.Post("/photos/{id}/vote", photos.HandleVote)

			r.Post("/polls/{id}/vote", polls.HandleVote)
			r.Get("/polls/{id}/user-vote", polls.HandleUserVote)
		})
	})
}

// Router exposes the configured mux, mainly for tests driving the server
// through httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully,
// giving in-flight requests 30 seconds to finish.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("dataDir", s.config.DataDir),
			slog.String("mediaDir", s.config.MediaDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
