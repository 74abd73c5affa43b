package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/habitloop/habitloop/internal/profile"
	"github.com/habitloop/habitloop/server/middleware"
	apiv1 "github.com/habitloop/habitloop/server/router/api/v1"
	"github.com/habitloop/habitloop/store"
)

// Server hosts the REST API.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	stopChan   chan struct{}
}

// NewServer assembles the echo instance, middleware chain and API routes.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store, secret string) (*Server, error) {
	s := &Server{
		Profile:  profile,
		Store:    store,
		stopChan: make(chan struct{}),
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			slog.Error("panic recovered", "path", c.Path(), "error", err)
			return err
		},
	}))
	echoServer.Use(echomw.CORS())
	echoServer.Use(echomw.TimeoutWithConfig(echomw.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))

	rateLimiter := middleware.NewRateLimiter(10, 20)
	rateLimiter.StartCleanup(s.stopChan)
	echoServer.Use(rateLimiter.Middleware())

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiV1Service := apiv1.NewAPIV1Service(secret, profile, store)
	apiV1Service.RegisterRoutes(echoServer)

	s.echoServer = echoServer
	return s, nil
}

// Start begins serving and blocks until the listener fails or Shutdown runs.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "version", s.Profile.Version, "mode", s.Profile.Mode)
	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases resources.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	close(s.stopChan)
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server gracefully", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
}
