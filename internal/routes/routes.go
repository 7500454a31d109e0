// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"time"

	"cascade/internal/handlers"
	"cascade/internal/middleware"
	"cascade/internal/models"
	"cascade/internal/services"
	"cascade/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Options carries what the routes need beyond the services.
type Options struct {
	WebhookSecret string
	Health        *handlers.HealthHandler
	// AuthRateLimit is the number of signup or login attempts per IP and
	// minute. Zero disables the limiter.
	AuthRateLimit int
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, reg *services.Registry, opts Options) {
	authHandler := handlers.NewAuthHandler(reg.Auth)
	referralHandler := handlers.NewReferralHandler(reg.Referral, reg.Payout)
	tradeHandler := handlers.NewTradeHandler(reg.Trade)
	commissionHandler := handlers.NewCommissionHandler(reg.Calculator)
	adminHandler := handlers.NewAdminHandler(reg.Ledger)
	authMiddleware := middleware.NewAuthMiddleware(reg.Auth)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Cascade API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Public endpoints
	if opts.Health != nil {
		api.Get("/health", opts.Health.Check)
	}
	api.Get("/commission/preview", commissionHandler.Preview)

	authGroup := api.Group("/auth")
	throttle := authLimiter(opts.AuthRateLimit)
	authGroup.Post("/signup", throttle, authHandler.Signup)
	authGroup.Post("/register", throttle, authHandler.Signup)
	authGroup.Post("/login", throttle, authHandler.Login)
	authGroup.Get("/me", authMiddleware.Handler, authHandler.Me)
	authGroup.Post("/logout", authMiddleware.Handler, authHandler.Logout)
	authGroup.Put("/payout-account", authMiddleware.Handler, middleware.HasPermission(models.PermissionEarningsClaim), authHandler.SetPayoutAccount)

	api.Post("/webhook/trade", middleware.WebhookSecret(opts.WebhookSecret), tradeHandler.Webhook)

	// Protected routes
	ref := api.Group("/referral", authMiddleware.Handler)
	ref.Post("/generate", middleware.HasPermission(models.PermissionReferralWrite), referralHandler.GenerateCode)
	ref.Get("/network", middleware.HasPermission(models.PermissionReferralRead), referralHandler.Network)
	ref.Get("/earnings", middleware.HasPermission(models.PermissionEarningsRead), referralHandler.Earnings)
	ref.Get("/stats", middleware.HasPermission(models.PermissionEarningsRead), referralHandler.Stats)
	ref.Post("/claim", middleware.HasPermission(models.PermissionEarningsClaim), referralHandler.Claim)
	ref.Get("/claims", middleware.HasPermission(models.PermissionEarningsRead), referralHandler.ClaimHistory)

	admin := api.Group("/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)
	admin.Get("/treasury", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.Treasury)
}

func authLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Fail(c, fiber.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	})
}
