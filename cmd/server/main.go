package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"cso-scholarhub/internal/adapters/http/middleware"
	"cso-scholarhub/internal/adapters/http/routes"
	"cso-scholarhub/internal/adapters/persistence/models"
	"cso-scholarhub/internal/config"

	"github.com/gofiber/fiber/v2"

	_ "cso-scholarhub/docs" // Swagger docs
)

// @title XU ScholarHub API
// @version 1.0
// @description Scholarship management API for the Center for Student Organizations
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email cso@xu.edu.ph

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.scholarhub.xu.edu.ph
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed scholarship programs and the initial admin account
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "XU ScholarHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    25 * 1024 * 1024, // contract PDFs
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	background := routes.Setup(app, db, cfg)

	// Notification delivery worker + daily deadline reminders (08:30)
	background.Notifications.Start()
	defer background.Notifications.Stop()
	background.Reminders.Start()
	defer background.Reminders.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
