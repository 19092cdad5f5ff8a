package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

type JWTAuth struct {
	JWTSecret []byte
}

func NewJWTAuth(secret []byte) *JWTAuth {
	return &JWTAuth{JWTSecret: secret}
}

func (m *JWTAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, "")
}

func (m *JWTAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, tokens.RoleAdmin)
}

func (m *JWTAuth) require(next echo.HandlerFunc, role string) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearer(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil || claims == nil {
			c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		if role != "" && claims.Role != role {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		return next(c)
	}
}

// bearer prefers the Authorization header and falls back to the access cookie.
func bearer(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if v, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(v)
		}
	}
	if ck, err := c.Cookie(tokens.AccessCookie); err == nil {
		return ck.Value
	}
	return ""
}
