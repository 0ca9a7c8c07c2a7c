// Package devserver serves an in-memory roadmap API for local development and tests.
//
// It implements the same endpoints as the production repository (templates, areas,
// phases, tasks) and the same error shape: {"message": "..."}.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"roadmap-cli/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server exposes a Store over HTTP.
type Server struct {
	echo   *echo.Echo
	store  *Store
	logger *zap.Logger
}

type errorBody struct {
	Message string `json:"message"`
}

func New(store *Store, logger *zap.Logger) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{echo: e, store: store, logger: logger}
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler (for httptest servers).
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := s.echo.Group("/api")
	api.GET("/roadmap-templates", s.handleTemplates)
	api.GET("/roadmap-templates/:templateId/areas", s.handleAreas)
	api.GET("/roadmap-templates/:templateId/phases", s.handlePhases)
	api.GET("/roadmap-templates/:templateId/tasks", s.handleTasks)
	api.POST("/roadmap-templates/:templateId/tasks", s.handleCreateTask)
	api.GET("/tasks/:id", s.handleGetTask)
	api.PUT("/tasks/:id", s.handleUpdateTask)
	api.DELETE("/tasks/:id", s.handleDeleteTask)
}

func (s *Server) handleTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Templates())
}

func (s *Server) handleAreas(c echo.Context) error {
	areas, err := s.store.Areas(c.Param("templateId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, areas)
}

func (s *Server) handlePhases(c echo.Context) error {
	phases, err := s.store.Phases(c.Param("templateId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, phases)
}

func (s *Server) handleTasks(c echo.Context) error {
	tasks, err := s.store.Tasks(c.Param("templateId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var in model.TaskInput
	if err := c.Bind(&in); err != nil {
		s.logger.Warn("invalid create request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}
	t, err := s.store.CreateTask(c.Param("templateId"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) handleGetTask(c echo.Context) error {
	t, err := s.store.Task(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var in model.TaskInput
	if err := c.Bind(&in); err != nil {
		s.logger.Warn("invalid update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}
	t, err := s.store.UpdateTask(c.Param("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.store.DeleteTask(c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errTemplateNotFound), errors.Is(err, errTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errNameRequired), errors.Is(err, errForeignArea), errors.Is(err, errForeignPhase):
		status = http.StatusBadRequest
	}
	return c.JSON(status, errorBody{Message: err.Error()})
}
