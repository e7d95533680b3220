package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/prospect-crm/internal/config"
)

// CampaignRateLimiter applies a token bucket per caller to campaign sends.
// Callers are keyed by authenticated user id, falling back to the client IP.
func CampaignRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, ok := limiters[key]
		if !ok {
			limiter = rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
			limiters[key] = limiter
		}
		return limiter
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, _ := c.Get(ContextKeyUserID).(string)
			if key == "" {
				key = c.RealIP()
			}

			if !limiterFor(key).Allow() {
				return deny(c, http.StatusTooManyRequests, "campaign rate limit exceeded")
			}

			return next(c)
		}
	}
}
