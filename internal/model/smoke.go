package model

import (
    "sort"
    "time"
)

// Smoke is a shared smoke-grenade lineup clip as stored in the `smokes`
// table.  The owning user is set once at creation from the verified caller
// identity and never reassigned.  Deletion is soft: DeletedAt is set and
// every read filters deleted rows out, which keeps historical rating and
// report rows meaningful.
type Smoke struct {
    ID           uint64     `json:"id"`            // smokes.id
    Title        string     `json:"title"`         // smokes.title
    VideoURL     string     `json:"video_url"`     // smokes.video_url
    TimestampSec uint32     `json:"timestamp_sec"` // smokes.timestamp_sec, offset into the clip
    X            float64    `json:"x"`             // smokes.x, map coordinate
    Y            float64    `json:"y"`             // smokes.y, map coordinate
    UserID       uint64     `json:"user_id"`       // smokes.user_id (owner)
    MapID        uint64     `json:"map_id"`        // smokes.map_id
    CreatedAt    time.Time  `json:"created_at"`    // smokes.created_at
    UpdatedAt    time.Time  `json:"updated_at"`    // smokes.updated_at
    DeletedAt    *time.Time `json:"-"`             // smokes.deleted_at (soft delete marker)
}

// SmokeWithScore is the list/read projection of a smoke: the row itself, a
// score derived at query time as the signed sum of its rating values
// (COALESCE'd to 0 when unrated), and the denormalized author and map
// fields the listing endpoints return.
type SmokeWithScore struct {
    Smoke
    Score   int64  `json:"score"`    // SUM(ratings.value), never stored
    Author  Author `json:"author"`   // owning user's public fields
    MapName string `json:"map_name"` // maps.name
}

// SortByScore orders a listing by descending score, ties broken by
// descending creation time so equally-scored lineups surface newest first.
// This is the order every smoke listing returns.
func SortByScore(smokes []SmokeWithScore) {
    sort.SliceStable(smokes, func(i, j int) bool {
        if smokes[i].Score != smokes[j].Score {
            return smokes[i].Score > smokes[j].Score
        }
        return smokes[i].CreatedAt.After(smokes[j].CreatedAt)
    })
}

// Author is the public subset of a user embedded in smoke listings.
type Author struct {
    ID          uint64 `json:"id"`
    DisplayName string `json:"display_name"`
    AvatarURL   string `json:"avatar_url"`
}
