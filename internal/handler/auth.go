package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/devkoalaa/cs2-smokes-hub-api/internal/config"
    "github.com/devkoalaa/cs2-smokes-hub-api/internal/model"
    "github.com/devkoalaa/cs2-smokes-hub-api/internal/steam"
    "github.com/devkoalaa/cs2-smokes-hub-api/internal/utils"
)

// AuthHandler implements the Steam login flow and session management.
// Login is a two-leg OpenID handshake: /auth/steam redirects the browser
// to Steam, /auth/steam/return verifies Steam's assertion, resolves the
// profile through the Web API, reconciles it onto an internal user and
// issues the session tokens.
type AuthHandler struct {
    Cfg    config.Config
    OpenID *steam.OpenID
    Steam  *steam.Client
    Users  UserStore
    Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, oid *steam.OpenID, sc *steam.Client, u UserStore, t TokenStore) *AuthHandler {
    return &AuthHandler{Cfg: cfg, OpenID: oid, Steam: sc, Users: u, Tokens: t}
}

// ----- DTOs -----

type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type userPart struct {
    ID          uint64 `json:"id"`
    SteamID     string `json:"steam_id"`
    DisplayName string `json:"display_name"`
    AvatarURL   string `json:"avatar_url"`
}
type authResp struct {
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

func toUserPart(u model.User) userPart {
    return userPart{ID: u.ID, SteamID: u.SteamID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

// SteamLogin redirects the browser to Steam's OpenID endpoint.
func (h *AuthHandler) SteamLogin(c echo.Context) error {
    return c.Redirect(http.StatusFound, h.OpenID.LoginURL())
}

// SteamReturn handles the provider callback.  The assertion is verified
// against Steam, the profile fetched, and the user created or refreshed.
// The display name and avatar always come from the fresh profile: the
// persona name falls back to the real name, the avatar is the
// highest-resolution image the profile offers.  A provider that yields no
// verifiable identity or no profile is a 401, never a 500.
func (h *AuthHandler) SteamReturn(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    steamID, err := h.OpenID.Verify(ctx, c.QueryParams())
    if err != nil {
        if errors.Is(err, steam.ErrNotVerified) {
            return echo.NewHTTPError(http.StatusUnauthorized, "steam login not verified")
        }
        return err
    }

    prof, err := h.Steam.PlayerSummary(ctx, steamID)
    if err != nil {
        if errors.Is(err, steam.ErrNoProfile) {
            return echo.NewHTTPError(http.StatusUnauthorized, "steam returned no profile")
        }
        return err
    }

    u, err := h.Users.Reconcile(ctx, prof.SteamID, steam.DisplayName(prof), steam.BestAvatar(prof.AvatarURLs))
    if err != nil {
        return err
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.SteamID, u.DisplayName, h.Cfg.AccessTTLMin)
    if err != nil {
        return err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return err
    }
    if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return err
    }

    return c.JSON(http.StatusOK, authResp{
        User:    toUserPart(u),
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    })
}

// Me returns the authenticated user's profile, read fresh from the store.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, toUserPart(u))
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// access/refresh pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return echo.NewHTTPError(http.StatusBadRequest, "refresh_token required")
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := reqCtx(c)
    defer cancel()

    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh")
    }
    _ = h.Tokens.RevokeByHash(ctx, hash)

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh")
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.SteamID, u.DisplayName, h.Cfg.AccessTTLMin)
    if err != nil {
        return err
    }
    newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return err
    }
    if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
        return err
    }

    return c.JSON(http.StatusOK, authResp{
        User:    toUserPart(u),
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
    })
}

// LogoutAll revokes every refresh token of the authenticated user, ending
// all sessions at once. Outstanding access tokens still run out their
// short TTL; only the ability to refresh is withdrawn.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
        return err
    }
    return c.NoContent(http.StatusNoContent)
}

// Logout revokes the presented refresh token, ending that session.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return echo.NewHTTPError(http.StatusBadRequest, "refresh_token required")
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
        return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
    }
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        return err
    }
    return c.NoContent(http.StatusNoContent)
}
