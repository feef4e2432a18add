package middleware

// identity.go provides the key-strategy helper shared by the rate limiter
// and cache middleware: a string identifier for the current caller, used
// only for bucketing and cache keys, never for authorization.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's id as a string, or "anon"
// when the request carries no authenticated identity.
func currentUserID(c echo.Context) string {
    if v := c.Get("user_id"); v != nil {
        if id, ok := v.(uint64); ok && id != 0 {
            return strconv.FormatUint(id, 10)
        }
    }
    return "anon"
}
