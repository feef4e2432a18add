package handler // handler defines http handlers

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
)

// The store interfaces below mirror the repository methods each handler
// needs.  Handlers depend on these rather than the concrete repos so tests
// can substitute in-memory fakes; the repository structs satisfy them.

// MapStore is the read-only map catalog.
type MapStore interface {
    List(ctx context.Context) ([]model.Map, error)
    GetByID(ctx context.Context, id uint64) (model.Map, error)
    Exists(ctx context.Context, id uint64) (bool, error)
}

// SmokeStore persists smoke lineups.
type SmokeStore interface {
    ListByMap(ctx context.Context, mapID uint64) ([]model.SmokeWithScore, error)
    GetByID(ctx context.Context, id uint64) (model.SmokeWithScore, error)
    Create(ctx context.Context, ownerID, mapID uint64, title, videoURL string, timestampSec uint32, x, y float64) (model.SmokeWithScore, error)
    SoftDelete(ctx context.Context, id, ownerID uint64) error
}

// RatingStore persists per-(user, smoke) votes.
type RatingStore interface {
    Upsert(ctx context.Context, userID, smokeID uint64, value int8) error
    Remove(ctx context.Context, userID, smokeID uint64) error
}

// ReportStore persists moderation reports.
type ReportStore interface {
    Create(ctx context.Context, userID, smokeID uint64, reason string) (model.Report, error)
    StatusFor(ctx context.Context, userID uint64, smokeIDs []uint64) (map[uint64]bool, error)
}

// UserStore reconciles and loads users.
type UserStore interface {
    Reconcile(ctx context.Context, steamID, displayName, avatarURL string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore persists refresh tokens.
type TokenStore interface {
    StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
    ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForUser(ctx context.Context, userID uint64) error
}

// getUserID extracts the authenticated user id the JWT middleware stored
// in the context.  A missing or mistyped value means the route was wired
// without the middleware, which surfaces as 401 rather than a panic.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID parses a positive numeric path parameter, rejecting non-numeric
// and zero values with 400 before any store access.
func parseID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
    }
    return id, nil
}

// reqCtx bounds a store call to five seconds, matching the pattern every
// handler in this package uses.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
