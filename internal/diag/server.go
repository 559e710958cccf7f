// Package diag exposes a small Echo-based HTTP surface for observing a
// running engine: a health probe and a state dump. This is strictly a
// diagnostics aid (spec.md §3: "used by the GUI and for diagnostics
// only") — nothing here feeds back into the control loop.
package diag

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/randomstudio/soundscape-engine/internal/engine"
	"github.com/randomstudio/soundscape-engine/internal/remote"
)

// EngineView is the read-only slice of *engine.Engine the diagnostics
// surface needs; kept narrow so tests can fake it.
type EngineView interface {
	PlayingCount() int
	Stats() engine.MessageStats
	Snapshot() []remote.ClipSnapshot
}

// Server is the Echo application backing the diagnostics surface.
type Server struct {
	echo *echo.Echo
	eng  EngineView
}

// New constructs an Echo app with the /health and /api/state routes.
func New(eng EngineView) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	s := &Server{echo: e, eng: eng}
	s.registerRoutes()
	return s
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			if req.URL.Path == "/health" {
				slog.Debug("diag request", "path", req.URL.Path, "status", c.Response().Status)
				return nil
			}
			slog.Info("diag request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/api/state", s.handleState)
}

// Echo exposes the underlying Echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Run starts Echo and blocks until ctx cancellation or startup failure.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		err := s.echo.Start(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down diagnostics server")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.echo.Shutdown(shutCtx)
		return nil
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Playing int    `json:"playing"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Playing: s.eng.PlayingCount(),
	})
}

type stateResponse struct {
	Stats engine.MessageStats   `json:"stats"`
	Clips []remote.ClipSnapshot `json:"clips"`
}

func (s *Server) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, stateResponse{
		Stats: s.eng.Stats(),
		Clips: s.eng.Snapshot(),
	})
}
