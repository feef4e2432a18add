package middleware // middleware contains reusable HTTP middleware functions

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

    "github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
)

// UserLookup is the slice of the user repository the middleware needs to
// confirm a token's subject still exists.
type UserLookup interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the authenticated user into the request context.  Beyond
// verifying the signature and expiry, the subject is looked back up in the
// store on every request: a deleted user holding an otherwise-valid token
// is rejected.  Handlers read the identity via c.Get("user_id") (uint64),
// c.Get("steam_id") and c.Get("display_name").
func JWTAuth(secret string, users UserLookup) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 enforced; a token signed with any other
            // method is rejected regardless of its payload.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
            }
            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
            }
            sub, ok := claims["sub"].(float64) // numeric JSON claims decode as float64
            if !ok || sub <= 0 {
                return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
            }
            userID := uint64(sub)

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()
            u, err := users.GetByID(ctx, userID)
            if err != nil {
                // Unknown or deleted account: token no longer grants access.
                return echo.NewHTTPError(http.StatusUnauthorized, "account not found")
            }

            c.Set("user_id", u.ID)
            c.Set("steam_id", u.SteamID)
            c.Set("display_name", u.DisplayName)
            return next(c)
        }
    }
}
