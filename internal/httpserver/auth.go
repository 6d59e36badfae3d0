package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mernspace/auth-service/internal/cookies"
	"github.com/mernspace/auth-service/internal/httperrors"
	"github.com/mernspace/auth-service/internal/logging"
	mw "github.com/mernspace/auth-service/internal/middleware"
	"github.com/mernspace/auth-service/internal/service"
	"github.com/mernspace/auth-service/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieDomain string
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_rejected", "reason", "bad_body", "error", err)
		return httperrors.Wrap(httperrors.KindValidation, "invalid body", err)
	}
	if errs := req.Validate(); len(errs) > 0 {
		l.Warn("register_rejected", "reason", "validation", "fields", len(errs))
		return httperrors.Validation(errs)
	}

	user, pair, err := h.Svc.Register(ctx, service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	h.setAuthCookies(c, pair)
	return c.JSON(http.StatusCreated, echo.Map{"id": user.ID})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_rejected", "reason", "bad_body", "error", err)
		return httperrors.Wrap(httperrors.KindValidation, "invalid body", err)
	}
	if errs := req.Validate(); len(errs) > 0 {
		l.Warn("login_rejected", "reason", "validation", "fields", len(errs))
		return httperrors.Validation(errs)
	}

	user, pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setAuthCookies(c, pair)
	return c.JSON(http.StatusOK, echo.Map{"id": user.ID})
}

// Self returns the authenticated user. The Password field never serializes.
func (h *AuthHTTP) Self(c echo.Context) error {
	userID, ok := c.Get(mw.CtxUserID).(uint)
	if !ok {
		return httperrors.New(httperrors.KindUnauthorized, "missing access token")
	}

	user, err := h.Svc.Self(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	refreshCookie, err := c.Cookie(cookies.RefreshToken)
	if err != nil || refreshCookie.Value == "" {
		return httperrors.New(httperrors.KindUnauthorized, "missing refresh token")
	}

	user, pair, err := h.Svc.Refresh(c.Request().Context(), refreshCookie.Value)
	if err != nil {
		return err
	}

	h.setAuthCookies(c, pair)
	return c.JSON(http.StatusOK, echo.Map{"id": user.ID})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	if refreshCookie, err := c.Cookie(cookies.RefreshToken); err == nil {
		if err := h.Svc.Logout(c.Request().Context(), refreshCookie.Value); err != nil {
			return err
		}
	}

	c.SetCookie(cookies.Delete(cookies.AccessToken, h.CookieDomain))
	c.SetCookie(cookies.Delete(cookies.RefreshToken, h.CookieDomain))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) setAuthCookies(c echo.Context, pair *service.TokenPair) {
	c.SetCookie(cookies.New(cookies.AccessToken, pair.AccessToken, h.CookieDomain, pair.AccessExp))
	c.SetCookie(cookies.New(cookies.RefreshToken, pair.RefreshToken, h.CookieDomain, pair.RefreshExp))
}
