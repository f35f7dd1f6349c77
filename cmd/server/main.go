package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Object storage for listing images. Without it the API runs but refuses uploads.
	var imageService *services.ImageService
	if cfg.MinioAccessKey != "" {
		store, err := storage.NewMinioStore(cfg)
		if err != nil {
			slog.Error("object storage unavailable, image uploads disabled", "error", err)
		} else {
			imageService = services.NewImageService(store)
			slog.Info("object storage connected", "bucket", cfg.MinioBucket)
		}
	}

	// Shared inquiry limiter; falls back to in-memory limits without Redis.
	var inquiryLimiter middleware.Limiter
	if cfg.RedisAddr != "" {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "nyumba:inquiries", routes.InquiryLimit, routes.InquiryWindow)
		if err != nil {
			slog.Error("redis limiter init failed", "error", err)
			os.Exit(1)
		}
		defer limiter.Close()
		inquiryLimiter = limiter
	}

	// Services
	filter := services.NewContentFilter()
	profileService := services.NewProfileService(database.DB)
	listingService := services.NewListingService(database.DB, filter)
	inquiryService := services.NewInquiryService(database.DB, listingService, filter)
	adminService := services.NewAdminService(listingService, profileService, inquiryService)
	authService := services.NewAuthService(database.DB, cfg, profileService)

	gate := access.NewGate(profileService, models.RoleAdmin, cfg.LandingPath)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app. The body limit fits an over-cap batch of listing images.
	appConfig := routes.AppConfig()
	appConfig.ErrorHandler = customErrorHandler
	app := fiber.New(appConfig)

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, gate, inquiryLimiter, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Health:  handlers.NewHealthHandler(imageService != nil),
		Listing: handlers.NewListingHandler(listingService, inquiryService, imageService),
		Inquiry: handlers.NewInquiryHandler(inquiryService),
		Profile: handlers.NewProfileHandler(profileService),
		Admin:   handlers.NewAdminHandler(adminService, listingService, profileService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
