package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
	"github.com/sups/practice-server/internal/core/query"
)

// DataHandler serves the /data collections.
type DataHandler struct {
	service ports.DataService
}

func NewDataHandler(service ports.DataService) *DataHandler {
	return &DataHandler{service: service}
}

// target resolves the collection and the optional record id of a request.
// More than one segment after the collection is rejected.
func target(c echo.Context) (collection, id string, err error) {
	tokens := pathTokens(c)
	if len(tokens) > 1 {
		return "", "", domain.RequestErr("")
	}
	if len(tokens) == 1 {
		id = tokens[0]
	}
	return c.Param("collection"), id, nil
}

// Collections handles GET /data.
//
// @Summary      List collection names
// @Tags         data
// @Produce      json
// @Success      200  {array}  string
// @Router       /data [get]
func (h *DataHandler) Collections(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Collections(c.Request().Context()))
}

// Get handles GET /data/:collection and GET /data/:collection/:id.
//
// @Summary      Read records
// @Description  Lists a collection through the query pipeline, or reads one record.
// @Tags         data
// @Produce      json
// @Param        X-Authorization  header  string  false  "Access token"
// @Param        collection       path    string  true   "Collection name"
// @Param        where            query   string  false  "Filter, e.g. year>=2000 AND genre IN (\"drama\")"
// @Param        sortBy           query   string  false  "Comma-separated sort keys, each optionally followed by desc"
// @Param        offset           query   int     false  "Records to skip"
// @Param        pageSize         query   int     false  "Maximum records to return"
// @Param        distinct         query   string  false  "Comma-separated fields forming the uniqueness key"
// @Param        count            query   string  false  "Return the number of matches instead of records"
// @Param        select           query   string  false  "Comma-separated fields to keep"
// @Param        load             query   string  false  "Relations, e.g. author=_ownerId:users"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /data/{collection} [get]
func (h *DataHandler) Get(c echo.Context) error {
	collection, id, err := target(c)
	if err != nil {
		return err
	}

	out, err := h.service.Read(c.Request().Context(), ports.ReadInput{
		Actor:      actorFrom(c),
		Collection: collection,
		ID:         id,
		Params:     query.ParseRawQuery(c.QueryString()),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /data/:collection.
//
// @Summary      Create a record
// @Description  The record is owned by the caller; _ownerId in the body is ignored.
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        X-Authorization  header  string          true  "Access token"
// @Param        collection       path    string          true  "Collection name"
// @Param        body             body    map[string]any  true  "Record fields"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /data/{collection} [post]
func (h *DataHandler) Create(c echo.Context) error {
	collection, id, err := target(c)
	if err != nil {
		return err
	}
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), ports.WriteInput{
		Actor:      actorFrom(c),
		Collection: collection,
		ID:         id,
		Payload:    body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}

// Replace handles PUT /data/:collection/:id.
//
// @Summary      Replace a record
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        X-Authorization  header  string          true  "Access token"
// @Param        collection       path    string          true  "Collection name"
// @Param        id               path    string          true  "Record id"
// @Param        body             body    map[string]any  true  "New record fields"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /data/{collection}/{id} [put]
func (h *DataHandler) Replace(c echo.Context) error {
	return h.write(c, h.service.Replace)
}

// Merge handles PATCH /data/:collection/:id.
//
// @Summary      Merge fields into a record
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        X-Authorization  header  string          true  "Access token"
// @Param        collection       path    string          true  "Collection name"
// @Param        id               path    string          true  "Record id"
// @Param        body             body    map[string]any  true  "Fields to merge"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /data/{collection}/{id} [patch]
func (h *DataHandler) Merge(c echo.Context) error {
	return h.write(c, h.service.Merge)
}

// Delete handles DELETE /data/:collection/:id.
//
// @Summary      Delete a record
// @Tags         data
// @Produce      json
// @Param        X-Authorization  header  string  true  "Access token"
// @Param        collection       path    string  true  "Collection name"
// @Param        id               path    string  true  "Record id"
// @Success      200  {object}  domain.Deletion
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /data/{collection}/{id} [delete]
func (h *DataHandler) Delete(c echo.Context) error {
	collection, id, err := target(c)
	if err != nil {
		return err
	}

	deleted, err := h.service.Delete(c.Request().Context(), ports.WriteInput{
		Actor:      actorFrom(c),
		Collection: collection,
		ID:         id,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleted)
}

func (h *DataHandler) write(c echo.Context, op func(ctx context.Context, in ports.WriteInput) (domain.Document, error)) error {
	collection, id, err := target(c)
	if err != nil {
		return err
	}
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	out, err := op(c.Request().Context(), ports.WriteInput{
		Actor:      actorFrom(c),
		Collection: collection,
		ID:         id,
		Payload:    body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
