package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	updateRatePerSecond = 2
	updateBurst         = 5
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Dashboard view
	s.echo.GET("/", s.handleIndex)

	// Event streams
	s.echo.GET("/api/events", s.handleEvents)
	s.echo.GET("/ws/events", s.handleWebSocket)

	// Mutations
	s.echo.POST("/api/update", s.handleUpdate, newRateLimiter(updateRatePerSecond, updateBurst))
}
