package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicapp/clinic-backend/internal/api/middleware"
)

// ctxIdentity extracts the caller login id injected by the Auth middleware.
// An empty login id means the middleware did not run.
func ctxIdentity(c echo.Context) (string, error) {
	loginID, _ := c.Get(middleware.CtxEmployeeID).(string)
	if loginID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return loginID, nil
}

// optionalIdentity returns the caller login id when a bearer token was sent.
func optionalIdentity(c echo.Context) string {
	loginID, _ := c.Get(middleware.CtxEmployeeID).(string)
	return loginID
}

func bindError() error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
}
