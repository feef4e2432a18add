package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// MapHandler exposes the read-only map catalog.
type MapHandler struct {
    Maps MapStore
}

func NewMapHandler(maps MapStore) *MapHandler { return &MapHandler{Maps: maps} }

// List handles GET /v1/maps.
func (h *MapHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    maps, err := h.Maps.List(ctx)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, maps)
}

// GetByID handles GET /v1/maps/:id.  A non-numeric id is 400, an unknown
// id 404.
func (h *MapHandler) GetByID(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    m, err := h.Maps.GetByID(ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, m)
}
