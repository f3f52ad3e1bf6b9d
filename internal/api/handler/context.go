package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/freight-pricing/internal/api/middleware"
	"github.com/99minutos/freight-pricing/internal/core/domain"
)

// ctxIdentity returns the caller injected by the Auth middleware. Routes that
// change prices need a real caller, so an anonymous request is rejected with
// 401 before any service call.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
