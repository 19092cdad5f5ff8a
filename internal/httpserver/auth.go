package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		l.Warn("register_error", "status", 400, "reason", "missing credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password required.")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.OKWithID("Registration successful.", user.ID))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	token, exp, err := h.Svc.IssueToken(user)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign token")
	}
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, token, "/", exp))

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		Token:     token,
		ExpiresAt: exp,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	logging.FromContext(c.Request().Context()).Info("logout_success", "handler", "auth.logout")
	return c.JSON(http.StatusOK, transport.OK("Logged out."))
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.change_password")

	uid, err := userID(c)
	if err != nil {
		l.Warn("change_password_error", "status", 401, "reason", "no user in context", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_password_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ChangePassword(ctx, uid, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("change_password_error", "status", 400, "reason", "old password incorrect")
			return echo.NewHTTPError(http.StatusBadRequest, "Old password incorrect.")
		case errors.Is(err, service.ErrNotFound):
			l.Warn("change_password_error", "status", 404, "reason", "user not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "User not found.")
		}
		return fail(l, "change_password_error", err)
	}

	l.Info("change_password_success", "user_id", uid)
	return c.JSON(http.StatusOK, transport.OK("Password updated."))
}
