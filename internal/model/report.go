package model

import "time"

// Report status lifecycle.  New reports always start as PENDING; the
// creation path never accepts a caller-supplied status.  The remaining
// states exist for moderation tooling working off the report queue.
const (
    ReportStatusPending   = "PENDING"
    ReportStatusReviewed  = "REVIEWED"
    ReportStatusResolved  = "RESOLVED"
    ReportStatusDismissed = "DISMISSED"
)

// Report is a moderation report filed by a user against a smoke.  The
// (user_id, smoke_id) pair is unique: a second report from the same user
// against the same smoke is rejected outright, never merged.
type Report struct {
    ID        uint64    `json:"id"`         // reports.id
    Reason    string    `json:"reason"`     // reports.reason, trimmed, 10-500 chars
    Status    string    `json:"status"`     // reports.status
    UserID    uint64    `json:"user_id"`    // reports.user_id (reporter)
    SmokeID   uint64    `json:"smoke_id"`   // reports.smoke_id
    CreatedAt time.Time `json:"created_at"` // reports.created_at
    UpdatedAt time.Time `json:"updated_at"` // reports.updated_at
}
