// main.go
package main

import (
	"log"
	"os"
	"time"

	"triviaclub/database"
	"triviaclub/handlers"
	"triviaclub/handlers/admin"
	"triviaclub/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Wire the progression services
	handlers.Init()

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)

	// Quiz routes
	quizGroup := api.Group("/quizzes")
	quizGroup.Use(middleware.AuthMiddleware)
	quizGroup.Post("/complete", handlers.CompleteQuiz)
	quizGroup.Get("/history", handlers.GetQuizHistory)

	// Achievement routes
	api.Get("/achievements", middleware.AuthMiddleware, handlers.GetUserAchievements)

	// Season routes
	api.Get("/seasons", handlers.GetSeasons)
	api.Get("/stats/season", middleware.AuthMiddleware, handlers.GetSeasonStats)

	// Referral routes
	api.Get("/referrals/me", middleware.AuthMiddleware, handlers.GetMyReferrals)

	// Billing webhooks (signature checked upstream at the gateway)
	api.Post("/webhooks/subscription", handlers.SubscriptionActivated)

	// Live unlock feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/unlocks", middleware.WebSocketAuthMiddleware, websocket.New(handlers.UnlockFeed))

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", admin.Login)
	adminGroup.Post("/logout", admin.Logout)

	// Protected admin routes
	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)

	// Admin achievement catalog management
	adminProtected.Get("/achievements", admin.GetAchievements)
	adminProtected.Post("/achievements", admin.CreateAchievement)
	adminProtected.Put("/achievements/:id", admin.UpdateAchievement)
	adminProtected.Delete("/achievements/:id", admin.DeleteAchievement)

	// Admin season management
	adminProtected.Get("/seasons", admin.GetSeasons)
	adminProtected.Post("/seasons", admin.CreateSeason)
	adminProtected.Put("/seasons/:id", admin.UpdateSeason)
	adminProtected.Delete("/seasons/:id", admin.DeleteSeason)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("✅ Completion endpoint available at /api/quizzes/complete")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
