// Package router wires HTTP routes to handlers and attaches the
// authentication, role, cache and rate limit middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-wash-backoffice/internal/handler"
	"github.com/iliyamo/car-wash-backoffice/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints.  Register, login and
// refresh live under /v1/auth without a session; /v1/me and logout
// require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh_token body or a bearer token, so
	// it stays outside the JWT group.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// With a bearer token and no body this revokes every session.
	auth.POST("/logout", a.Logout)
}
