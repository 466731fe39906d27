package middleware

import (
	"net/http"
	"strings"

	"storefront-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth parses an optional Bearer access token and, when valid, attaches the
// customer identity to the request context. Anonymous requests pass through
// untouched so guest checkout and cart routes keep working.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := extractBearer(c)
			if tokenStr == "" {
				return next(c)
			}

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return next(c)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return next(c)
			}

			ctx := c.Request().Context()
			if id, ok := claims["customer_id"].(float64); ok {
				ctx = utils.WithCustomerID(ctx, int64(id))
			}
			if role, ok := claims["role"].(string); ok {
				ctx = utils.WithCustomerRole(ctx, role)
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireAuth rejects requests that did not authenticate via Auth.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := utils.GetCustomerIDFromContext(c.Request().Context()); !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects non-admin sessions.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !utils.IsAdminContext(c.Request().Context()) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}

func extractBearer(c echo.Context) string {
	// Cookie first, Authorization header as fallback.
	if cookie, err := c.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
