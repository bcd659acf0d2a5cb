package routes

import (
	"cso-scholarhub/internal/adapters/http/handlers"
	"cso-scholarhub/internal/adapters/http/middleware"
	"cso-scholarhub/internal/adapters/persistence/repositories"
	"cso-scholarhub/internal/adapters/storage"
	"cso-scholarhub/internal/config"
	"cso-scholarhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Background holds the long-running services wired during route setup.
// The caller owns their lifecycle.
type Background struct {
	Notifications *services.NotificationService
	Reminders     *services.ReminderService
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *Background {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	scholarshipRepo := repositories.NewScholarshipRepository(db)
	studentRepo := repositories.NewStudentRepository(db)
	contractRepo := repositories.NewContractRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Contract files live on local disk under the configured upload dir
	blobStore := storage.NewLocalStore(cfg.Upload.Dir)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	notifyService := services.NewNotificationService(notificationRepo)
	streamService := services.NewStreamService(studentRepo)
	contractService := services.NewContractService(
		contractRepo,
		scholarshipRepo,
		studentRepo,
		blobStore,
		notifyService,
		streamService,
	)
	studentService := services.NewStudentService(studentRepo, streamService)
	scholarshipService := services.NewScholarshipService(scholarshipRepo)
	dashboardService := services.NewDashboardService(db)
	reminderService := services.NewReminderService(contractRepo, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	contractHandler := handlers.NewContractHandler(contractService)
	studentHandler := handlers.NewStudentHandler(studentService, streamService)
	scholarshipHandler := handlers.NewScholarshipHandler(scholarshipService)
	notificationHandler := handlers.NewNotificationHandler(notifyService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, contractHandler,
		studentHandler, scholarshipHandler, notificationHandler,
		dashboardHandler, cfg)

	return &Background{
		Notifications: notifyService,
		Reminders:     reminderService,
	}
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	contractHandler *handlers.ContractHandler,
	studentHandler *handlers.StudentHandler,
	scholarshipHandler *handlers.ScholarshipHandler,
	notificationHandler *handlers.NotificationHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Contract routes (CSO/Admin)
	contractRoutes := router.Group("/contracts")
	contractRoutes.Use(middleware.AuthMiddleware(cfg))
	contractRoutes.Use(middleware.CSOOrAdmin())
	setupContractRoutes(contractRoutes, contractHandler)

	// Student routes (CSO/Admin)
	studentRoutes := router.Group("/students")
	studentRoutes.Use(middleware.AuthMiddleware(cfg))
	studentRoutes.Use(middleware.CSOOrAdmin())
	setupStudentRoutes(studentRoutes, studentHandler)

	// Scholarship master routes (Authenticated, cacheable)
	scholarshipRoutes := router.Group("/scholarships")
	scholarshipRoutes.Use(middleware.AuthMiddleware(cfg))
	scholarshipRoutes.Use(middleware.MasterDataCache())
	setupScholarshipRoutes(scholarshipRoutes, scholarshipHandler)

	// Notification inbox (Authenticated users)
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Use(middleware.AuthMiddleware(cfg))
	notificationRoutes.Get("/", notificationHandler.List)

	// Dashboard routes (CSO/Admin)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.CSOOrAdmin())
	dashboardRoutes.Get("/", dashboardHandler.Overview)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes with stricter rate limits
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupContractRoutes configures contract publication routes
func setupContractRoutes(router fiber.Router, handler *handlers.ContractHandler) {
	router.Post("/", handler.Publish)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/file", handler.Download)
}

// setupStudentRoutes configures scholar management routes
func setupStudentRoutes(router fiber.Router, handler *handlers.StudentHandler) {
	router.Get("/", handler.List)
	router.Get("/export", handler.ExportCSV)
	router.Get("/stream", middleware.NoCacheHeaders(), handler.Stream)
	router.Get("/:id", handler.GetByID)
	router.Post("/:id/verify", handler.Verify)
	router.Put("/:id/revoke", handler.Revoke)
	router.Put("/:id/contracts/:contract_id", handler.SetContractStatus)
}

// setupScholarshipRoutes configures scholarship master data routes
func setupScholarshipRoutes(router fiber.Router, handler *handlers.ScholarshipHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
}
