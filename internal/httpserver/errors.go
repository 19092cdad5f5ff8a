package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/util"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var errUnauthorized = errors.New("unauthorized")

// statusFor maps a service error onto the status code and the message shown to the client.
func statusFor(err error) (int, string) {
	var stockErr *service.StockError
	switch {
	case errors.As(err, &stockErr):
		return http.StatusConflict, "Not enough stock for " + stockErr.Name + "."
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest, "Cart empty."
	case errors.Is(err, service.ErrInvalidRating):
		return http.StatusBadRequest, "Rating 1-5 required."
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, clientMessage(err, service.ErrInvalidInput)
	case errors.Is(err, service.ErrDuplicateUsername):
		return http.StatusConflict, "Username already exists."
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials."
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, clientMessage(err, service.ErrNotFound)
	case errors.Is(err, service.ErrProductInUse):
		return http.StatusConflict, "Product is referenced by orders and cannot be deleted."
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrOrderFailed):
		return http.StatusInternalServerError, "Error placing order."
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// clientMessage drops the sentinel prefix from a wrapped validation error.
func clientMessage(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// fail logs err under event and turns it into the HTTP error for the client.
func fail(l *slog.Logger, event string, err error) error {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", msg, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}

func userID(c echo.Context) (uint, error) {
	s, ok := c.Get(middleware.CtxUserID).(string)
	if !ok || s == "" {
		return 0, errUnauthorized
	}
	id, ok := util.ParseUint(s)
	if !ok {
		return 0, errUnauthorized
	}
	return id, nil
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get(middleware.CtxRole).(string)
	return role == tokens.RoleAdmin
}

func pathID(c echo.Context, name string) (uint, bool) {
	return util.ParseUint(c.Param(name))
}
