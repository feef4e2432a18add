package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Accounts are created the first time a Steam identity completes
// the OpenID handshake and are refreshed (display name, avatar) on every
// subsequent login.  There is no local credential: authentication is
// delegated entirely to Steam, so no password column exists.
//
// Fields:
//  ID          – primary key identifier of the user.
//  SteamID     – unique 64-bit Steam identifier, stored as a string.
//  DisplayName – persona name copied from the Steam profile on each login.
//  AvatarURL   – highest-resolution avatar URL Steam supplied (may be empty).
//  CreatedAt   – timestamp of first login.
//  UpdatedAt   – timestamp of last profile refresh.
type User struct {
    ID          uint64    `json:"id"`           // users.id
    SteamID     string    `json:"steam_id"`     // users.steam_id
    DisplayName string    `json:"display_name"` // users.display_name
    AvatarURL   string    `json:"avatar_url"`   // users.avatar_url
    CreatedAt   time.Time `json:"created_at"`   // users.created_at
    UpdatedAt   time.Time `json:"updated_at"`   // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA‑256 hash.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
