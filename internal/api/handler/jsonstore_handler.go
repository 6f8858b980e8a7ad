package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

// JSONStoreHandler serves the unauthenticated /jsonstore tree.
type JSONStoreHandler struct {
	service ports.JSONStoreService
}

func NewJSONStoreHandler(service ports.JSONStoreService) *JSONStoreHandler {
	return &JSONStoreHandler{service: service}
}

func storePath(c echo.Context) []string {
	return append([]string{c.Param("collection")}, pathTokens(c)...)
}

// respond writes v, or 204 when the path did not exist.
func respond(c echo.Context, v any, err error) error {
	if err != nil {
		return err
	}
	if v == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, v)
}

// Get handles GET /jsonstore/:collection/*.
//
// @Summary      Read a JSON store value
// @Tags         jsonstore
// @Produce      json
// @Param        collection  path  string  true  "Top-level key"
// @Success      200  {object}  map[string]any
// @Success      204
// @Router       /jsonstore/{collection} [get]
func (h *JSONStoreHandler) Get(c echo.Context) error {
	v, err := h.service.Get(c.Request().Context(), storePath(c))
	return respond(c, v, err)
}

// Create handles POST /jsonstore/:collection/*.
//
// @Summary      Add an entry under a path
// @Tags         jsonstore
// @Accept       json
// @Produce      json
// @Param        collection  path  string          true  "Top-level key"
// @Param        body        body  map[string]any  true  "Entry"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /jsonstore/{collection} [post]
func (h *JSONStoreHandler) Create(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}
	created, err := h.service.Create(c.Request().Context(), storePath(c), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}

// Replace handles PUT /jsonstore/:collection/*.
//
// @Summary      Replace an existing value
// @Tags         jsonstore
// @Accept       json
// @Produce      json
// @Param        collection  path  string  true  "Top-level key"
// @Success      200  {object}  map[string]any
// @Success      204
// @Router       /jsonstore/{collection} [put]
func (h *JSONStoreHandler) Replace(c echo.Context) error {
	var body any
	if c.Request().ContentLength == 0 {
		body = map[string]any{}
	} else if err := c.Echo().JSONSerializer.Deserialize(c, &body); err != nil {
		return domain.RequestErr("Invalid request body")
	}
	v, err := h.service.Replace(c.Request().Context(), storePath(c), body)
	return respond(c, v, err)
}

// Merge handles PATCH /jsonstore/:collection/*.
//
// @Summary      Merge fields into an object
// @Tags         jsonstore
// @Accept       json
// @Produce      json
// @Param        collection  path  string          true  "Top-level key"
// @Param        body        body  map[string]any  true  "Fields to merge"
// @Success      200  {object}  map[string]any
// @Success      204
// @Failure      400  {object}  map[string]any
// @Router       /jsonstore/{collection} [patch]
func (h *JSONStoreHandler) Merge(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}
	v, err := h.service.Merge(c.Request().Context(), storePath(c), body)
	return respond(c, v, err)
}

// Delete handles DELETE /jsonstore/:collection/*.
//
// @Summary      Remove a value
// @Tags         jsonstore
// @Produce      json
// @Param        collection  path  string  true  "Top-level key"
// @Success      200  {object}  map[string]any
// @Success      204
// @Router       /jsonstore/{collection} [delete]
func (h *JSONStoreHandler) Delete(c echo.Context) error {
	v, err := h.service.Delete(c.Request().Context(), storePath(c))
	return respond(c, v, err)
}
