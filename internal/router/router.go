package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/handler"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication and
// are not part of the versioned API.  Currently it exposes only a health
// check for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the Steam login flow and session endpoints.  The
// login legs and token exchange live under /v1/auth and need no session;
// /v1/auth/me sits behind the JWT middleware, which re-checks the user
// against the store on every call.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, users middleware.UserLookup) {
	g := e.Group("/v1/auth")
	g.GET("/steam", a.SteamLogin)
	g.GET("/steam/return", a.SteamReturn)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1/auth")
	me.Use(middleware.JWTAuth(jwtSecret, users))
	me.GET("/me", a.Me)
	me.POST("/logout_all", a.LogoutAll)
}

// RegisterPublic wires the unauthenticated browse endpoints: the map
// catalog and the per-map smoke listings.  These are the hot read paths,
// so the Redis response cache middleware fronts them when available.
func RegisterPublic(e *echo.Echo, m *handler.MapHandler, s *handler.SmokeHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/maps", m.List)
	g.GET("/maps/:id", m.GetByID)
	g.GET("/maps/:mapId/smokes", s.ListByMap)
}

// RegisterProtected wires every endpoint that mutates content or reads
// caller-specific state: smoke create/delete, voting, and reports.  All of
// them require a valid access token whose subject still exists.
func RegisterProtected(e *echo.Echo, s *handler.SmokeHandler, r *handler.RatingHandler, rep *handler.ReportHandler, jwtSecret string, users middleware.UserLookup) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret, users))

	g.POST("/smokes", s.Create)
	g.DELETE("/smokes/:id", s.Delete)

	g.POST("/smokes/:id/rate", r.Rate)
	g.DELETE("/smokes/:id/rate", r.Unrate)

	g.GET("/smokes/reports/status", rep.Status)
	g.POST("/smokes/:id/report", rep.Create)
}
