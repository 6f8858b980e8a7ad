package middleware

import (
	"math/rand/v2"
	"time"

	"github.com/labstack/echo/v4"
)

// Throttler reports whether responses should be delayed.
type Throttler interface {
	Throttled() bool
}

// ThrottleDelay returns a delay between 500ms and 1s.
func ThrottleDelay() time.Duration {
	return 500*time.Millisecond + rand.N(500*time.Millisecond)
}

// Throttle holds every request for delay() while t is on. The wait ends
// early when the client goes away.
func Throttle(t Throttler, delay func() time.Duration) echo.MiddlewareFunc {
	if delay == nil {
		delay = ThrottleDelay
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !t.Throttled() {
				return next(c)
			}
			timer := time.NewTimer(delay())
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			}
			return next(c)
		}
	}
}
