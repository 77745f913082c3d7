package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	errx "github.com/serenity-chat/server/internal/core/error"
	logx "github.com/serenity-chat/server/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errorMiddleware renders handler errors as {"error": message}. *errx.Error
// keeps its status and safe message; anything unknown becomes a 500.
func errorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil || c.Response().Committed {
				return err
			}

			var he *echo.HTTPError
			if errors.As(err, &he) {
				msg := http.StatusText(he.Code)
				if m, ok := he.Message.(string); ok {
					msg = m
				}
				return c.JSON(he.Code, errorResponse{Error: msg})
			}

			appErr := errx.From(err)
			if appErr.Status >= http.StatusInternalServerError {
				logx.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			}
			return c.JSON(appErr.Status, errorResponse{Error: appErr.Message})
		}
	}
}
