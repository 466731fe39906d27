package middleware

import (
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestID tags every request context with an id carried through logs.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.New().String()
			}

			ctx := logger.WithRequestID(c.Request().Context(), reqID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Request-ID", reqID)

			return next(c)
		}
	}
}

// Logging logs every HTTP request in structured JSON.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			timer := metrics.StartTimer()
			err := next(c)

			customerID, _ := utils.GetCustomerIDFromContext(c.Request().Context())
			logger.FromCtx(c.Request().Context()).Info("incoming request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.String("ip", c.RealIP()),
				zap.Duration("duration_ms", timer.Duration()),
				zap.Int64("customer_id", customerID),
			)

			return err
		}
	}
}

// Currency copies the client-selected display currency into the request
// context for the currency resolver.
func Currency() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			code := c.Request().Header.Get("X-Currency")
			if code == "" {
				code = c.QueryParam("currency")
			}
			if code != "" {
				ctx := utils.WithCurrencyCode(c.Request().Context(), code)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}
