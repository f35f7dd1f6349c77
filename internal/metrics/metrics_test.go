package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/listings/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/listings/:id", "404"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/listings/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/listings/:id", "404"))
	assert.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(ImageUploads.WithLabelValues("rejected"))
	ImageUploads.WithLabelValues("rejected").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ImageUploads.WithLabelValues("rejected")))
}
