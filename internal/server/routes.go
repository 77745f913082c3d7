package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := s.echo.Group("/api")

	api.POST("/conversations", s.handleStartConversation)
	api.GET("/conversations/:id", s.handleGetConversation)
	api.POST("/conversations/:id/messages", s.handleSendMessage)
	api.POST("/conversations/:id/reset", s.handleResetConversation)
	api.DELETE("/conversations/:id", s.handleEndConversation)

	api.POST("/encouragements", s.handleEncouragement)
}
