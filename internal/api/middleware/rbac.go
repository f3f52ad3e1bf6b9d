package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

// RequirePermission lets a request through when the caller holds any of the
// given permission codes. Super administrators pass every gate.
func RequirePermission(codes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if identity == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			if !identity.HasPermission(codes...) && !identity.HasRole(domain.RoleSuperAdmin) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
