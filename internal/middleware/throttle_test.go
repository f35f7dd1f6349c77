package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/ratelimit"
	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func throttledApp(shared Limiter) *fiber.App {
	app := fiber.New()
	app.Post("/inquiries", Throttle("test", shared, 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func hit(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("POST", "/inquiries", nil))
	require.NoError(t, err)
	return resp
}

func TestThrottleInMemory(t *testing.T) {
	app := throttledApp(nil)
	assert.Equal(t, fiber.StatusCreated, hit(t, app).StatusCode)
	assert.Equal(t, fiber.StatusCreated, hit(t, app).StatusCode)
	assert.Equal(t, fiber.StatusTooManyRequests, hit(t, app).StatusCode)
}

func TestThrottleRedis(t *testing.T) {
	redis := miniredis.RunT(t)
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(redis.Addr(), "", "test:throttle", 2, time.Minute)
	require.NoError(t, err)
	defer limiter.Close()

	app := throttledApp(limiter)

	resp := hit(t, app)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Reset"))

	assert.Equal(t, fiber.StatusCreated, hit(t, app).StatusCode)

	resp = hit(t, app)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

type denyAll struct{}

func (denyAll) Take(context.Context, string) ratelimit.Decision {
	return ratelimit.Decision{Limit: 5, Reset: 30 * time.Second}
}

func TestThrottleSharedDenies(t *testing.T) {
	resp := hit(t, throttledApp(denyAll{}))
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "30", resp.Header.Get("Retry-After"))
}
