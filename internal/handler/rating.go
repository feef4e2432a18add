package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/devkoalaa/cs2-smokes-hub-api/internal/httperr"
    "github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
)

// RatingHandler implements voting on smokes.  A vote is an upsert keyed on
// (user, smoke): casting again overwrites the previous value, so there is
// never a vote history, only the current vote.
type RatingHandler struct {
    Ratings RatingStore
}

func NewRatingHandler(ratings RatingStore) *RatingHandler {
    return &RatingHandler{Ratings: ratings}
}

type rateReq struct {
    Value int `json:"value"`
}

// Rate handles POST /v1/smokes/:id/rate.  The value is checked before any
// store access: only +1 and -1 are ever persisted.  An unknown or deleted
// smoke is 404.
func (h *RatingHandler) Rate(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }
    id, err := parseID(c, "id")
    if err != nil {
        return err
    }

    var req rateReq
    if err := c.Bind(&req); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
    }
    if req.Value != model.Upvote && req.Value != model.Downvote {
        return httperr.Validation("value must be +1 or -1")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Ratings.Upsert(ctx, uid, id, int8(req.Value)); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"smoke_id": id, "value": req.Value})
}

// Unrate handles DELETE /v1/smokes/:id/rate.  Removing a vote that was
// never cast succeeds; the delete is idempotent.
func (h *RatingHandler) Unrate(c echo.Context) error {
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

    if err := h.Ratings.Remove(ctx, uid, id); err != nil {
        return err
    }
    return c.NoContent(http.StatusNoContent)
}
