package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

const (
	HeaderAuthorization = "X-Authorization"
	HeaderAdmin         = "X-Admin"
)

// Actor resolves the caller and stores it under "actor" in the context.
// Requests without a token continue anonymously; a token that does not
// resolve to an open session is rejected. The presence of X-Admin, whatever
// its value, marks the actor as admin.
func Actor(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			_, admin := req.Header[http.CanonicalHeaderKey(HeaderAdmin)]
			actor := domain.Actor{Admin: admin}

			if token := req.Header.Get(HeaderAuthorization); token != "" {
				user, err := authService.Authenticate(req.Context(), token)
				if err != nil {
					return err
				}
				actor.User = user
			}

			c.Set("actor", actor)
			return next(c)
		}
	}
}
