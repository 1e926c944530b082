// Package server provides HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"jokeshare/src/app/http/handler"
	"jokeshare/src/app/http/response"
	"jokeshare/src/app/http/view"
	"jokeshare/src/app/middleware"
	"jokeshare/src/core/ports"
	"jokeshare/src/core/usecase"
	"jokeshare/src/infra/config"
	"jokeshare/src/infra/session"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	router *gin.Engine
	http   *http.Server

	sessions *session.Store

	// Handlers
	healthHandler *handler.HealthHandler
	jokeHandler   *handler.JokeHandler
	authHandler   *handler.AuthHandler
	feedHandler   *handler.FeedHandler
}

// New creates a new Server with all dependencies wired up.
func New(cfg *config.Config, log *slog.Logger, store ports.Store) *Server {
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(view.Templates())

	sessions := session.New(cfg.Session)

	// Services
	healthService := usecase.NewHealthService(store, log)
	jokeService := usecase.NewJokeService(store, log)
	authService := usecase.NewAuthService(store, log, cfg.Auth.BcryptCost)

	s := &Server{
		cfg:           cfg,
		log:           log,
		router:        router,
		sessions:      sessions,
		healthHandler: handler.NewHealthHandler(healthService),
		jokeHandler:   handler.NewJokeHandler(jokeService, log),
		authHandler:   handler.NewAuthHandler(authService, sessions, log),
		feedHandler:   handler.NewFeedHandler(jokeService, cfg.Feed, log),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// Recovery goes first to catch panics from everything after it.
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Session(s.sessions))
	s.router.Use(middleware.Logging(s.log))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler.Health)
	s.router.GET("/health/detailed", s.healthHandler.DetailedHealth)

	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/jokes")
	})

	s.router.GET("/login", s.authHandler.LoginForm)
	s.router.POST("/login", s.authHandler.Login)
	s.router.POST("/logout", s.authHandler.Logout)

	s.router.GET("/jokes.rss", s.feedHandler.RSS)

	jokes := s.router.Group("/jokes")
	{
		jokes.GET("", s.jokeHandler.List)
		jokes.GET("/new", s.jokeHandler.New)
		jokes.POST("/new", s.jokeHandler.Create)
		jokes.POST("/new/preview", s.jokeHandler.Preview)
		jokes.GET("/:jokeId", s.jokeHandler.Show)
		jokes.POST("/:jokeId", s.jokeHandler.Delete)
	}

	s.router.NoRoute(func(c *gin.Context) {
		if response.WantsJSON(c) {
			response.NotFound(c, "The requested resource was not found", middleware.GetRequestID(c))
			return
		}
		c.HTML(http.StatusNotFound, view.ErrorPage, view.Error{
			Layout:  view.Layout{Title: "Not found"},
			Message: "Huh? There is nothing here.",
		})
	})
}

// setupHTTPServer configures the underlying HTTP server.
func (s *Server) setupHTTPServer() {
	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// Run starts the HTTP server and blocks until shutdown.
// It handles graceful shutdown on SIGINT/SIGTERM.
func (s *Server) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("starting HTTP server",
			"addr", s.cfg.Server.Addr(),
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		s.log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.log.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("server stopped gracefully")
	return nil
}

// Router returns the Gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
