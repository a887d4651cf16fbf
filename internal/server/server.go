package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pscheid92/devboard/internal/app"
	"github.com/pscheid92/devboard/internal/broadcast"
	"github.com/pscheid92/devboard/internal/config"
	"github.com/pscheid92/devboard/internal/domain"
	apperrors "github.com/pscheid92/devboard/internal/errors"
)

type Server struct {
	echo    *echo.Echo
	config  *config.Config
	app     *app.Service
	hub     *broadcast.Hub
	mutator domain.IssueMutator
}

func NewServer(cfg *config.Config, appSvc *app.Service, hub *broadcast.Hub, mutator domain.IssueMutator) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:    e,
		config:  cfg,
		app:     appSvc,
		hub:     hub,
		mutator: mutator,
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
