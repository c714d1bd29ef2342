package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

// Context keys populated from a valid access token.
const (
	CtxEmployeeID = "employee_id"
	CtxRole       = "role"
)

// Auth validates the bearer access token and injects its claims into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			if err := authenticate(c, authHeader, jwtSecret); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth when an Authorization header is present and
// lets anonymous requests through untouched.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}
			if err := authenticate(c, authHeader, jwtSecret); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, authHeader, jwtSecret string) error {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	// Refresh tokens are only accepted by the refresh endpoint.
	if typ, _ := claims[domain.ClaimType].(string); typ != domain.TokenTypeAccess {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	subject, _ := claims[domain.ClaimSubject].(string)
	if subject == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	role, _ := claims[domain.ClaimRole].(string)

	c.Set(CtxEmployeeID, subject)
	c.Set(CtxRole, role)
	return nil
}
