package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mernspace/auth-service/internal/middleware"
	"github.com/mernspace/auth-service/internal/tokens"
)

type Deps struct {
	Auth         *AuthHTTP
	Signer       *tokens.Signer
	CookieDomain string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "Welcome to auth service") })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMw := middleware.NewAuth(d.Signer, d.CookieDomain)

	g := e.Group("/auth")
	g.POST("/register", d.Auth.Register)
	g.POST("/login", d.Auth.Login)
	g.POST("/refresh", d.Auth.Refresh)

	g.GET("/self", d.Auth.Self, authMw.RequireAuth)
	g.POST("/logout", d.Auth.Logout, authMw.RequireAuth)
}
