package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sups/practice-server/internal/core/domain"
)

// actorFrom returns the actor injected by the Actor middleware; requests that
// bypassed it are anonymous.
func actorFrom(c echo.Context) domain.Actor {
	actor, _ := c.Get("actor").(domain.Actor)
	return actor
}

// pathTokens splits the wildcard remainder of a route into its non-empty
// segments.
func pathTokens(c echo.Context) []string {
	var tokens []string
	for _, t := range strings.Split(c.Param("*"), "/") {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// bindDocument decodes a JSON object body. An empty body yields an empty
// document. c.Bind is avoided because it copies path params into maps.
func bindDocument(c echo.Context) (domain.Document, error) {
	body := domain.Document{}
	if c.Request().ContentLength == 0 {
		return body, nil
	}
	if err := c.Echo().JSONSerializer.Deserialize(c, &body); err != nil {
		return nil, domain.RequestErr("Invalid request body")
	}
	if body == nil {
		body = domain.Document{}
	}
	return body, nil
}
