package handler

import (
    "fmt"
    "math"
    "net/http"
    "net/url"
    "strings"
    "unicode/utf8"

    "github.com/labstack/echo/v4"

    "github.com/devkoalaa/cs2-smokes-hub-api/internal/httperr"
)

// Title length accepted for a smoke lineup clip.
const maxTitleLen = 120

// SmokeHandler implements the content endpoints: list-with-score, create
// and owner-gated delete.
type SmokeHandler struct {
    Smokes SmokeStore
    Maps   MapStore
}

func NewSmokeHandler(smokes SmokeStore, maps MapStore) *SmokeHandler {
    return &SmokeHandler{Smokes: smokes, Maps: maps}
}

type createSmokeReq struct {
    Title        string   `json:"title"`
    VideoURL     string   `json:"video_url"`
    TimestampSec int64    `json:"timestamp_sec"`
    X            *float64 `json:"x"`
    Y            *float64 `json:"y"`
    MapID        int64    `json:"map_id"`
}

// ListByMap handles GET /v1/maps/:mapId/smokes.  The map's existence is
// checked before any content query: an unknown map is 404, not an empty
// list.  Each returned smoke carries its derived score and the author's
// public profile fields.
func (h *SmokeHandler) ListByMap(c echo.Context) error {
    mapID, err := parseID(c, "mapId")
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    ok, err := h.Maps.Exists(ctx, mapID)
    if err != nil {
        return err
    }
    if !ok {
        return httperr.NotFoundf("map")
    }

    smokes, err := h.Smokes.ListByMap(ctx, mapID)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, smokes)
}

// Create handles POST /v1/smokes.  All field validation happens before any
// store access and failures are aggregated into one response.  The owner
// is always the verified caller; a client-supplied user id is ignored by
// construction since the DTO has no such field.
func (h *SmokeHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }

    var req createSmokeReq
    if err := c.Bind(&req); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
    }

    var msgs []string
    req.Title = strings.TrimSpace(req.Title)
    if req.Title == "" {
        msgs = append(msgs, "title must not be empty")
    } else if utf8.RuneCountInString(req.Title) > maxTitleLen {
        // Runes, not bytes: VARCHAR(120) stores 120 characters.
        msgs = append(msgs, fmt.Sprintf("title must be at most %d characters", maxTitleLen))
    }
    if !validVideoURL(req.VideoURL) {
        msgs = append(msgs, "video_url must be a valid http(s) URL")
    }
    if req.TimestampSec <= 0 || req.TimestampSec > math.MaxUint32 {
        msgs = append(msgs, "timestamp_sec must be a positive integer")
    }
    if req.X == nil || math.IsNaN(*req.X) || math.IsInf(*req.X, 0) {
        msgs = append(msgs, "x must be a number")
    }
    if req.Y == nil || math.IsNaN(*req.Y) || math.IsInf(*req.Y, 0) {
        msgs = append(msgs, "y must be a number")
    }
    if req.MapID <= 0 {
        msgs = append(msgs, "map_id must be a positive integer")
    }
    if len(msgs) > 0 {
        return httperr.Validation(msgs...)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    ok, err := h.Maps.Exists(ctx, uint64(req.MapID))
    if err != nil {
        return err
    }
    if !ok {
        return httperr.NotFoundf("map")
    }

    smoke, err := h.Smokes.Create(ctx, uid, uint64(req.MapID),
        req.Title, req.VideoURL, uint32(req.TimestampSec), *req.X, *req.Y)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, smoke)
}

// Delete handles DELETE /v1/smokes/:id.  The repository checks existence
// before ownership, so deleting an unknown or already-deleted smoke is 404
// while deleting someone else's live smoke is 403.  The second delete of
// the same smoke is 404, not an idempotent success.
func (h *SmokeHandler) Delete(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }
    id, err := parseID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Smokes.SoftDelete(ctx, id, uid); err != nil {
        return err
    }
    return c.NoContent(http.StatusNoContent)
}

// validVideoURL accepts absolute http/https URLs with a host.
func validVideoURL(raw string) bool {
    u, err := url.Parse(raw)
    if err != nil {
        return false
    }
    return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
