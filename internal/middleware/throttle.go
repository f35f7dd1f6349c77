package middleware

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
)

// Limiter is a shared rate limiter such as ratelimit.FixedWindowLimiter.
type Limiter interface {
	Take(ctx context.Context, key string) ratelimit.Decision
}

// Throttle limits requests per client IP. A non-nil shared limiter is used
// so limits hold across replicas; otherwise counts are kept in memory. scope
// labels rejections in metrics.
//
// Both paths answer with the X-RateLimit-* headers Fiber's limiter sets.
func Throttle(scope string, shared Limiter, max int, window time.Duration) fiber.Handler {
	tooManyRequests := func(c *fiber.Ctx) error {
		metrics.ThrottledRequests.WithLabelValues(scope).Inc()
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Too many requests, please try again later",
		})
	}

	if shared == nil {
		return limiter.New(limiter.Config{
			Max:          max,
			Expiration:   window,
			KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
			LimitReached: tooManyRequests,
		})
	}
	return func(c *fiber.Ctx) error {
		d := shared.Take(c.UserContext(), c.IP())
		reset := strconv.Itoa(int(math.Ceil(d.Reset.Seconds())))
		c.Set(headerRateLimit, strconv.Itoa(d.Limit))
		c.Set(headerRateRemaining, strconv.Itoa(d.Remaining))
		c.Set(headerRateReset, reset)
		if !d.Allowed {
			c.Set(fiber.HeaderRetryAfter, reset)
			return tooManyRequests(c)
		}
		return c.Next()
	}
}
