package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

// UtilHandler reads and toggles runtime switches.
type UtilHandler struct {
	service ports.UtilService
}

func NewUtilHandler(service ports.UtilService) *UtilHandler {
	return &UtilHandler{service: service}
}

type toggleRequest struct {
	Throttle *bool `json:"throttle" validate:"required"`
}

// Status handles GET /util/:service.
//
// @Summary      Read a util switch
// @Tags         util
// @Produce      json
// @Param        service  path      string  true  "Switch name (throttle)"
// @Success      200      {boolean} bool
// @Failure      404      {object}  map[string]any
// @Router       /util/{service} [get]
func (h *UtilHandler) Status(c echo.Context) error {
	on, err := h.service.Flag(c.Request().Context(), c.Param("service"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, on)
}

// Toggle handles POST /util.
//
// @Summary      Toggle util switches
// @Tags         util
// @Accept       json
// @Produce      json
// @Param        body  body      toggleRequest  true  "Switch values"
// @Success      200   {string}  string
// @Failure      400   {object}  map[string]any
// @Router       /util [post]
func (h *UtilHandler) Toggle(c echo.Context) error {
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return domain.RequestErr("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.Set(c.Request().Context(), map[string]bool{"throttle": *req.Throttle}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, "")
}
