// Package queue defines message payloads exchanged over the message broker.
package queue

// ReportCreatedEvent is published when a user files a moderation report.
// It carries enough context for downstream consumers (moderation log,
// notification bots) to act without querying the primary database.
type ReportCreatedEvent struct {
    ReportID   uint64 `json:"report_id"`
    SmokeID    uint64 `json:"smoke_id"`
    SmokeTitle string `json:"smoke_title"`
    MapName    string `json:"map_name"`
    ReporterID uint64 `json:"reporter_id"`
    Reason     string `json:"reason"`
    Status     string `json:"status"`
    CreatedAt  string `json:"created_at"`
}
