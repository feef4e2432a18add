package handler

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/devkoalaa/cs2-smokes-hub-api/internal/httperr"
    "github.com/devkoalaa/cs2-smokes-hub-api/internal/queue"
    "github.com/devkoalaa/cs2-smokes-hub-api/internal/repository"
    queue_publisher "github.com/devkoalaa/cs2-smokes-hub-api/internal/service"
)

// Reason length bounds: a short minimum filters noise, a generous maximum
// bounds storage.
const (
    minReasonLen = 10
    maxReasonLen = 500
)

// ReportHandler implements moderation reports.  Unlike ratings, creating a
// report is never an upsert: one report per (reporter, smoke) pair, a
// repeat attempt is rejected.
type ReportHandler struct {
    Reports ReportStore
    Smokes  SmokeStore

    // publish is swapped out in tests; defaults to the RabbitMQ publisher.
    publish func(ctx context.Context, ev queue.ReportCreatedEvent) error
}

func NewReportHandler(reports ReportStore, smokes SmokeStore) *ReportHandler {
    return &ReportHandler{
        Reports: reports,
        Smokes:  smokes,
        publish: queue_publisher.PublishReportCreated,
    }
}

type createReportReq struct {
    Reason string `json:"reason"`
}

// Create handles POST /v1/smokes/:id/report.  Checks run in order: reason
// bounds (before any store access), smoke existence (404), then the
// insert, where the unique (reporter, smoke) key turns a duplicate into a
// 409.  New reports always start PENDING; the request cannot carry a
// status.  The report.created event is published best-effort: a broker
// outage never fails the request.
func (h *ReportHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }
    id, err := parseID(c, "id")
    if err != nil {
        return err
    }

    var req createReportReq
    if err := c.Bind(&req); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
    }
    reason := strings.TrimSpace(req.Reason)
    if len(reason) < minReasonLen {
        return httperr.Validation(fmt.Sprintf("reason must be at least %d characters", minReasonLen))
    }
    if len(reason) > maxReasonLen {
        return httperr.Validation(fmt.Sprintf("reason must be at most %d characters", maxReasonLen))
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    smoke, err := h.Smokes.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return httperr.NotFoundf("smoke")
        }
        return err
    }

    rep, err := h.Reports.Create(ctx, uid, id, reason)
    if err != nil {
        if errors.Is(err, repository.ErrDuplicate) {
            return httperr.Conflictf("smoke already reported")
        }
        return err
    }

    if h.publish != nil {
        _ = h.publish(ctx, queue.ReportCreatedEvent{
            ReportID:   rep.ID,
            SmokeID:    smoke.ID,
            SmokeTitle: smoke.Title,
            MapName:    smoke.MapName,
            ReporterID: uid,
            Reason:     rep.Reason,
            Status:     rep.Status,
            CreatedAt:  rep.CreatedAt.UTC().Format(time.RFC3339),
        })
    }

    return c.JSON(http.StatusCreated, rep)
}

// Status handles GET /v1/smokes/reports/status?ids=1,2,3 and reports, for
// each requested smoke id, whether the caller has already filed a report.
// Pure read used to drive "already reported" UI state.
func (h *ReportHandler) Status(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }

    raw := strings.TrimSpace(c.QueryParam("ids"))
    if raw == "" {
        return httperr.Validation("ids must be a comma-separated list of smoke ids")
    }
    parts := strings.Split(raw, ",")
    ids := make([]uint64, 0, len(parts))
    for _, p := range parts {
        n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
        if err != nil || n == 0 {
            return httperr.Validation("ids must be a comma-separated list of smoke ids")
        }
        ids = append(ids, n)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    reported, err := h.Reports.StatusFor(ctx, uid, ids)
    if err != nil {
        return err
    }

    type statusItem struct {
        SmokeID  uint64 `json:"smoke_id"`
        Reported bool   `json:"reported"`
    }
    out := make([]statusItem, 0, len(ids))
    for _, id := range ids {
        out = append(out, statusItem{SmokeID: id, Reported: reported[id]})
    }
    return c.JSON(http.StatusOK, out)
}
