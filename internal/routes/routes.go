package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/zluffi/zluffi-backend/internal/config"
	"github.com/zluffi/zluffi-backend/internal/handlers"
	"github.com/zluffi/zluffi-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	listingHandler *handlers.ListingHandler,
	messageHandler *handlers.MessageHandler,
	uploadHandler *handlers.UploadHandler,
	moderationHandler *handlers.ModerationHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Uploaded images are public.
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth endpoints are public but get a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/google", authHandler.GoogleSignIn)
	auth.Post("/otp", authHandler.RequestOTP)
	auth.Put("/otp", authHandler.VerifyOTP)

	// Browsing is public
	api.Get("/listings", listingHandler.List)
	api.Get("/listings/:id", listingHandler.Get)
	api.Get("/search", listingHandler.Search)
	api.Get("/categories", listingHandler.Categories)

	// Mutating and messaging endpoints require a session
	jwt := middleware.JWTProtected(cfg)
	api.Post("/listings", jwt, listingHandler.Create)
	api.Post("/listings/:id/favorite", jwt, listingHandler.ToggleFavorite)
	api.Get("/messages", jwt, messageHandler.Conversations)
	api.Post("/messages", jwt, messageHandler.Send)
	api.Get("/messages/:id", jwt, messageHandler.Thread)
	api.Post("/upload", jwt, uploadHandler.Upload)
	api.Post("/reports", jwt, moderationHandler.CreateReport)
	api.Post("/blocks", jwt, moderationHandler.BlockUser)
	api.Delete("/blocks/:id", jwt, moderationHandler.UnblockUser)

	// Admin moderation panel
	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Get("/reports", moderationHandler.ListReports)
	admin.Put("/reports/:id", moderationHandler.ActionReport)
}
