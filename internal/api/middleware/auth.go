package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

// IdentityKey is the echo context key holding the caller's *domain.Identity.
const IdentityKey = "identity"

// identityClaims is the token payload issued by the identity provider.
type identityClaims struct {
	UserType       domain.UserType `json:"userType"`
	OrganizationID *int64          `json:"organizationId"`
	Roles          []string        `json:"roles"`
	Permissions    []string        `json:"permissions"`
	jwt.RegisteredClaims
}

// Auth validates the JWT and injects the caller's identity into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return authenticate(jwtSecret, false)
}

// OptionalAuth behaves like Auth but lets requests without an Authorization
// header through as anonymous callers. A header that is present must still
// carry a valid token.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return authenticate(jwtSecret, true)
}

func authenticate(jwtSecret string, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := &identityClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			identity, err := claims.identity()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			c.Set(IdentityKey, identity)

			return next(c)
		}
	}
}

func (ic *identityClaims) identity() (*domain.Identity, error) {
	if ic.Subject == "" {
		return nil, domain.ErrInvalidIdentity
	}
	switch ic.UserType {
	case domain.UserInternal, domain.UserExternal:
	default:
		return nil, domain.ErrInvalidIdentity
	}
	return &domain.Identity{
		Subject:        ic.Subject,
		UserType:       ic.UserType,
		OrganizationID: ic.OrganizationID,
		Roles:          ic.Roles,
		Permissions:    ic.Permissions,
	}, nil
}

// IdentityFrom returns the identity set by Auth, or nil for anonymous callers.
func IdentityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(IdentityKey).(*domain.Identity)
	return identity
}
