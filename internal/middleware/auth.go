package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mernspace/auth-service/internal/cookies"
	"github.com/mernspace/auth-service/internal/httperrors"
	"github.com/mernspace/auth-service/internal/tokens"
)

// Context keys populated by RequireAuth.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

type Auth struct {
	Signer       *tokens.Signer
	CookieDomain string
}

func NewAuth(signer *tokens.Signer, cookieDomain string) *Auth {
	return &Auth{Signer: signer, CookieDomain: cookieDomain}
}

// RequireAuth verifies the access token cookie and exposes the subject and
// role on the echo context.
func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(cookies.AccessToken)
		if err != nil || accessCookie.Value == "" {
			return httperrors.New(httperrors.KindUnauthorized, "missing access token")
		}

		claims, err := m.Signer.VerifyAccess(accessCookie.Value)
		if err != nil {
			c.SetCookie(cookies.Delete(cookies.AccessToken, m.CookieDomain))
			c.SetCookie(cookies.Delete(cookies.RefreshToken, m.CookieDomain))
			return httperrors.Wrap(httperrors.KindUnauthorized, "invalid or expired token", err)
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			return httperrors.New(httperrors.KindUnauthorized, "invalid or expired token")
		}

		c.Set(CtxUserID, uint(userID))
		c.Set(CtxRole, claims.Role)
		return next(c)
	}
}
