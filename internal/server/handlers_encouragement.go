package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	errx "github.com/serenity-chat/server/internal/core/error"
)

type encouragementRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleEncouragement(c echo.Context) error {
	var req encouragementRequest
	if err := c.Bind(&req); err != nil {
		return errx.Validation("invalid request body")
	}

	e, ok := s.encourager.Reply(req.Text)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, e)
}
