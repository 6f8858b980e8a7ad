package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sups/practice-server/internal/core/domain"
)

// errorResponse is the error envelope existing clients parse.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps each domain error kind to its HTTP status code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"code": <status>, "message": "<msg>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Code: code, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.Message(err)
	case errors.Is(err, domain.ErrRequest):
		return http.StatusBadRequest, domain.Message(err)
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, domain.Message(err)
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusUnauthorized, domain.Message(err)
	case errors.Is(err, domain.ErrCredential):
		return http.StatusForbidden, domain.Message(err)
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Server Error"
}
