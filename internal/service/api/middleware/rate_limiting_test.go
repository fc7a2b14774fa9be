package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/notify-relay/internal/service/api/middleware"
)

func TestRateLimiting_InvalidArguments(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		middleware.RateLimiting(0, 10)
	})
	assert.Panics(t, func() {
		middleware.RateLimiting(10, 0)
	})
	assert.Panics(t, func() {
		middleware.RateLimiting(-1, -1)
	})
}

func doRateLimitedRequest(t *testing.T, rateLimiter echo.MiddlewareFunc, realIP string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderXRealIP, realIP)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := rateLimiter(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return rec, handler(c)
}

func TestRateLimiting_BurstExceeded(t *testing.T) {
	t.Parallel()

	// rate 1 req/s with burst 2: the first two requests pass, the third is rejected.
	rateLimiter := middleware.RateLimiting(1, 2)

	for i := 0; i < 2; i++ {
		_, err := doRateLimitedRequest(t, rateLimiter, "203.0.113.10")
		require.NoError(t, err)
	}

	rec, err := doRateLimitedRequest(t, rateLimiter, "203.0.113.10")
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRateLimiting_PerIPIsolation(t *testing.T) {
	t.Parallel()

	rateLimiter := middleware.RateLimiting(1, 1)

	// Exhaust the allowance of the first IP.
	_, err := doRateLimitedRequest(t, rateLimiter, "203.0.113.20")
	require.NoError(t, err)
	_, err = doRateLimitedRequest(t, rateLimiter, "203.0.113.20")
	require.Error(t, err)

	// A different IP keeps its own independent allowance.
	_, err = doRateLimitedRequest(t, rateLimiter, "203.0.113.21")
	require.NoError(t, err)
}
