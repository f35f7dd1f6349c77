package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Inquiry submissions allowed per client IP and window.
const (
	InquiryLimit  = 5
	InquiryWindow = time.Minute
)

// AppConfig is the Fiber configuration the routes are sized for. Callers add
// their own ErrorHandler.
func AppConfig() fiber.Config {
	return fiber.Config{
		BodyLimit: services.MaxUploadBodyBytes,
	}
}

type Handlers struct {
	Auth    *handlers.AuthHandler
	Health  *handlers.HealthHandler
	Listing *handlers.ListingHandler
	Inquiry *handlers.InquiryHandler
	Profile *handlers.ProfileHandler
	Admin   *handlers.AdminHandler
}

// Setup mounts every route. inquiryLimiter may be nil, in which case inquiry
// throttling is kept in process memory.
func Setup(app *fiber.App, cfg *config.Config, gate *access.Gate, inquiryLimiter middleware.Limiter, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)
	api.Get("/catalog", h.Listing.Catalog)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), h.Auth.Logout)

	// Signed-in user
	me := api.Group("/me", middleware.JWTProtected(cfg))
	me.Get("/", h.Auth.Me)
	me.Patch("/profile", h.Profile.Update)
	me.Get("/listings", h.Listing.Mine)
	me.Get("/listings/:id/inquiries", h.Listing.Inquiries)

	// Listings: public reads, owner writes
	listings := api.Group("/listings")
	listings.Get("/", h.Listing.List)
	listings.Get("/:id", middleware.OptionalAuth(cfg), h.Listing.Get)
	listings.Post("/", middleware.JWTProtected(cfg), h.Listing.Create)
	listings.Post("/:id/inquiries",
		middleware.Throttle("inquiries", inquiryLimiter, InquiryLimit, InquiryWindow),
		middleware.OptionalAuth(cfg),
		h.Inquiry.Create,
	)

	// Admin panel. Missing or invalid tokens are treated as "no user" so the
	// gate can redirect instead of answering 401.
	admin := api.Group("/admin", middleware.OptionalAuth(cfg), middleware.RequireRole(gate))
	admin.Get("/stats", h.Admin.Stats)
	admin.Get("/listings", h.Admin.Listings)
	admin.Put("/listings/:id/status", h.Admin.UpdateListingStatus)
	admin.Delete("/listings/:id", h.Admin.DeleteListing)
	admin.Get("/users", h.Admin.Users)
	admin.Put("/users/:id/type", h.Admin.UpdateUserType)
	admin.Put("/users/:id/role", h.Admin.UpdateRole)
	admin.Get("/roles", h.Admin.Roles)
}
