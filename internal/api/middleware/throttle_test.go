package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type switchStub bool

func (s switchStub) Throttled() bool { return bool(s) }

func TestThrottle(t *testing.T) {
	for _, tc := range []struct {
		name     string
		on       bool
		expected int
	}{
		{"off", false, 0},
		{"on", true, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

			delays := 0
			handler := Throttle(switchStub(tc.on), func() time.Duration {
				delays++
				return time.Millisecond
			})(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			if err := handler(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if delays != tc.expected {
				t.Fatalf("expected %d delays, got %d", tc.expected, delays)
			}
		})
	}
}

func TestThrottleDelayRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := ThrottleDelay()
		if d < 500*time.Millisecond || d >= time.Second {
			t.Fatalf("delay out of range: %v", d)
		}
	}
}
