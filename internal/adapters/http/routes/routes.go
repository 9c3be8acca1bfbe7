package routes

import (
	"github.com/spmcdev/Daily-Collection/internal/adapters/http/handlers"
	"github.com/spmcdev/Daily-Collection/internal/adapters/http/middleware"
	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/repositories"
	"github.com/spmcdev/Daily-Collection/internal/config"
	"github.com/spmcdev/Daily-Collection/internal/core/policy"
	"github.com/spmcdev/Daily-Collection/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, sessionRepo, cfg)
	userService := services.NewUserService(userRepo, sessionRepo)
	ledgerService := services.NewLedgerService(loanRepo, paymentRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	loanHandler := handlers.NewLoanHandler(ledgerService)
	paymentHandler := handlers.NewPaymentHandler(ledgerService)
	summaryHandler := handlers.NewSummaryHandler(ledgerService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Every API route resolves the session once up front
	api := app.Group("/api")
	api.Use(middleware.SessionAuth(authService, cfg))

	// Auth endpoint (public, action-dispatched, stricter rate limit)
	api.Post("/auth", middleware.AuthRateLimiter(), authHandler.Handle)

	// Loan routes (admin only)
	loanRoutes := api.Group("/loans")
	loanRoutes.Use(middleware.RequirePermission(policy.ResourceLoans))
	setupLoanRoutes(loanRoutes, loanHandler)

	// Payment routes (admin only)
	paymentRoutes := api.Group("/payments")
	paymentRoutes.Use(middleware.RequirePermission(policy.ResourcePayments))
	setupPaymentRoutes(paymentRoutes, paymentHandler)

	// User management routes (admin only)
	userRoutes := api.Group("/users")
	userRoutes.Use(middleware.RequirePermission(policy.ResourceUsers))
	setupUserRoutes(userRoutes, userHandler)

	// Borrower summary (authenticated; per-borrower scope checked in handler)
	api.Get("/borrower-summary", middleware.RequireAuth(), summaryHandler.Get)
}

// setupLoanRoutes configures loan CRUD routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Post("/purge", handler.Purge)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
	router.Delete("/", handler.RejectMassDelete)
}

// setupPaymentRoutes configures payment CRUD routes
func setupPaymentRoutes(router fiber.Router, handler *handlers.PaymentHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Post("/installment", handler.RecordInstallment)
	router.Post("/purge", handler.Purge)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
	router.Delete("/", handler.RejectMassDelete)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Mutate)
	router.Delete("/:id", handler.Delete)
	router.Delete("/", handler.RejectMassDelete)
}
