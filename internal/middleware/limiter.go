package middleware

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"storefront-be/internal/utils"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// Rate limit tiers.
const (
	// Checkout / payment webhooks (strict).
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General browsing (default).
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex
)

func init() {
	go cleanupVisitors()
}

// getVisitor retrieves or creates a rate limiter for the given bucket key.
func getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes stale entries so the visitors map does not grow
// without bound.
func cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		mu.Lock()
		for key, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, key)
			}
		}
		mu.Unlock()
	}
}

// RateLimit applies a per-identity token bucket. Checkout and webhook routes
// get the strict tier; everything else the general one.
func RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limit, burst, tier := resolveRateTier(c)

			var identity string
			if customerID, ok := utils.GetCustomerIDFromContext(c.Request().Context()); ok {
				identity = fmt.Sprintf("customer:%d", customerID)
			} else {
				ip, _, err := net.SplitHostPort(c.Request().RemoteAddr)
				if err != nil {
					ip = c.Request().RemoteAddr
				}
				identity = "ip:" + ip
			}

			key := fmt.Sprintf("%s:%s", identity, tier)

			limiter := getVisitor(key, limit, burst)
			if !limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": http.StatusText(http.StatusTooManyRequests),
				})
			}

			return next(c)
		}
	}
}

func resolveRateTier(c echo.Context) (rate.Limit, int, string) {
	path := c.Request().URL.Path
	if path == "/orders/create" || path == "/webhooks/payment" {
		return limitStrict, burstStrict, "strict"
	}
	return limitGeneral, burstGeneral, "general"
}
