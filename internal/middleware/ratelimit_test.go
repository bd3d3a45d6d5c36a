package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/kyiku/aggpack/internal/testutil"
)

func TestRateLimitMiddleware(t *testing.T) {
	mw := RateLimitMiddleware(3, time.Minute)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	call := func() int {
		tc := testutil.NewTestContext(http.MethodPost, "/", nil)
		tc.Request.RemoteAddr = "10.0.0.1:1234"
		_ = handler(tc.Context)
		return tc.GetResponseCode()
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, call(), "request %d within the limit", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, call())
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)

	assert.True(t, rl.isAllowed("1.2.3.4"))
	assert.False(t, rl.isAllowed("1.2.3.4"))

	time.Sleep(30 * time.Millisecond)

	assert.True(t, rl.isAllowed("1.2.3.4"))
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	assert.True(t, rl.isAllowed("1.1.1.1"))
	assert.True(t, rl.isAllowed("2.2.2.2"))
	assert.False(t, rl.isAllowed("1.1.1.1"))
}
