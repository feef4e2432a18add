package model

import "time"

// Rating value bounds.  The value column only ever holds +1 or -1; any
// other integer is rejected at the boundary before a query runs.
const (
    Upvote   = 1
    Downvote = -1
)

// Rating is a single user's current vote on a smoke.  The table carries a
// composite primary key on (user_id, smoke_id), so at most one row exists
// per pair; changing a vote overwrites the row via upsert rather than
// appending history.
type Rating struct {
    UserID    uint64    `json:"user_id"`    // ratings.user_id
    SmokeID   uint64    `json:"smoke_id"`   // ratings.smoke_id
    Value     int8      `json:"value"`      // ratings.value, +1 or -1
    CreatedAt time.Time `json:"created_at"` // ratings.created_at
    UpdatedAt time.Time `json:"updated_at"` // ratings.updated_at
}
