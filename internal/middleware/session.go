package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-pnr-terminal/internal/utils"
)

// SessionToken reads an optional Bearer token and, when it validates,
// stores the session ID under "session_id" for downstream handlers and
// the rate limiter.  A missing or invalid token is not an error: the
// command handler mints a fresh session and token in that case.
func SessionToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				raw := strings.TrimPrefix(auth, "Bearer ")
				if sid, err := utils.ParseSessionToken(secret, raw); err == nil {
					c.Set("session_id", sid)
				}
			}
			return next(c)
		}
	}
}
