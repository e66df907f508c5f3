package routes

import (
	"time"

	"fuelgenie-api/internal/adapters/http/handlers"
	"fuelgenie-api/internal/adapters/http/middleware"
	"fuelgenie-api/internal/adapters/persistence/repositories"
	"fuelgenie-api/internal/config"
	"fuelgenie-api/internal/core/domain"
	"fuelgenie-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	creditRepo := repositories.NewCreditRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	accessService := services.NewAccessService(userRepo)
	app.Hooks().OnShutdown(func() error {
		accessService.Close()
		return nil
	})
	roleService := services.NewRoleService(roleRepo, accessService)
	userService := services.NewUserService(userRepo, roleRepo, accessService)
	customerService := services.NewCustomerService(customerRepo)
	creditService := services.NewCreditService(db, creditRepo, customerRepo, paymentRepo)

	// Payment and verification share one guard so their writes against a
	// single account never interleave
	notifyService := services.NewNotificationService(cfg)
	guard := services.NewInflightGuard()
	txRunner := repositories.NewTxRunner(db)
	paymentService := services.NewPaymentService(txRunner, creditRepo, paymentRepo, guard, notifyService)
	verificationService := services.NewVerificationService(txRunner, creditRepo, paymentRepo, guard, notifyService)

	dashboardService := services.NewDashboardService(db)
	cronService := services.NewCronService(creditRepo, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, accessService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	creditHandler := handlers.NewCreditHandler(creditService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg)
	verificationHandler := handlers.NewVerificationHandler(verificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	navHandler := handlers.NewNavHandler(accessService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited, never cached)
	setupAuthRoutes(apiV1.Group("/auth", middleware.NoCacheHeaders()), authHandler, cfg)

	// Everything below requires a valid access token
	auth := middleware.AuthMiddleware(cfg)

	// Always-allowed surface: dashboard, profile, navigation
	dashboardRoutes := apiV1.Group("/dashboard", auth, middleware.PrivateCacheHeaders(30*time.Second))
	dashboardRoutes.Get("/", dashboardHandler.GetDashboard)

	profileRoutes := apiV1.Group("/profile", auth)
	profileRoutes.Put("/", userHandler.UpdateProfile)
	profileRoutes.Put("/password", middleware.StrictRateLimiter(), userHandler.ChangePassword)

	apiV1.Get("/nav", auth, middleware.PrivateCacheHeaders(time.Minute), navHandler.GetNav)

	// User and role management (Admin only)
	userRoutes := apiV1.Group("/users", auth, middleware.AdminOnly())
	userRoutes.Get("/", userHandler.ListUsers)
	userRoutes.Get("/:id", userHandler.GetUser)
	userRoutes.Put("/:id", userHandler.UpdateUser)
	userRoutes.Delete("/:id", userHandler.DeleteUser)
	userRoutes.Post("/:id/roles", userHandler.AssignTeamRole)
	userRoutes.Delete("/:id/roles", userHandler.RemoveTeamRole)

	roleRoutes := apiV1.Group("/roles", auth)
	roleRoutes.Get("/catalog", middleware.CatalogCache(), roleHandler.GetModuleCatalog)
	roleRoutes.Get("/", roleHandler.ListRoles)
	roleRoutes.Get("/:id", roleHandler.GetRole)
	roleRoutes.Post("/", middleware.AdminOnly(), roleHandler.CreateRole)
	roleRoutes.Put("/:id", middleware.AdminOnly(), roleHandler.UpdateRole)
	roleRoutes.Delete("/:id", middleware.AdminOnly(), roleHandler.DeleteRole)

	// Customer routes, guarded per the customers module matrix
	customerRoutes := apiV1.Group("/customers", auth)
	customerRoutes.Get("/search",
		middleware.RequirePermission(accessService, "customers", "customer-list", domain.ActionRead),
		customerHandler.SearchCustomers)
	customerRoutes.Get("/",
		middleware.RequirePermission(accessService, "customers", "customer-list", domain.ActionRead),
		customerHandler.ListCustomers)
	customerRoutes.Get("/:cid",
		middleware.RequirePermission(accessService, "customers", "customer-list", domain.ActionRead),
		customerHandler.GetCustomer)
	customerRoutes.Post("/",
		middleware.RequirePermission(accessService, "customers", "customer-onboarding", domain.ActionCreate),
		customerHandler.CreateCustomer)

	// Credit routes, guarded per the credit module matrix
	creditRoutes := apiV1.Group("/credit", auth)
	creditRoutes.Post("/accounts",
		middleware.RequirePermission(accessService, "credit", "credit-accounts", domain.ActionCreate),
		creditHandler.CreateAccount)
	creditRoutes.Get("/:cid",
		middleware.RequirePermission(accessService, "credit", "credit-accounts", domain.ActionRead),
		creditHandler.GetCreditInfo)
	creditRoutes.Post("/:cid/purchases",
		middleware.RequirePermission(accessService, "credit", "credit-accounts", domain.ActionUpdate),
		creditHandler.RecordPurchase)
	creditRoutes.Put("/:cid/terms",
		middleware.RequirePermission(accessService, "credit", "credit-upgrade", domain.ActionUpdate),
		creditHandler.ReviseTerms)
	creditRoutes.Post("/:cid/extra",
		middleware.RequirePermission(accessService, "credit", "extra-credit", domain.ActionCreate),
		creditHandler.AddExtraCredit)

	// Payment routes, guarded per the payments module matrix
	paymentRoutes := apiV1.Group("/payments", auth)
	paymentRoutes.Post("/:cid/settle",
		middleware.RequirePermission(accessService, "payments", "settlements", domain.ActionCreate),
		paymentHandler.SettleCredit)
	paymentRoutes.Post("/:cid/partial",
		middleware.RequirePermission(accessService, "payments", "partial-payments", domain.ActionCreate),
		paymentHandler.PartialPayment)
	paymentRoutes.Post("/:cid/pay-total",
		middleware.RequirePermission(accessService, "payments", "partial-payments", domain.ActionCreate),
		paymentHandler.PayTotal)
	paymentRoutes.Get("/:cid",
		middleware.RequirePermission(accessService, "payments", "payment-history", domain.ActionRead),
		paymentHandler.ListPayments)

	// Verification routes, rate limited on decisions
	verificationRoutes := apiV1.Group("/verification", auth)
	verificationRoutes.Get("/pending",
		middleware.RequirePermission(accessService, "verification", "cheque-verification", domain.ActionRead),
		verificationHandler.ListPending)
	verificationRoutes.Put("/:cid/payments/:paymentId",
		middleware.RequirePermission(accessService, "verification", "cheque-verification", domain.ActionUpdate),
		middleware.StrictRateLimiter(),
		verificationHandler.VerifyPayment)
	verificationRoutes.Put("/:cid/settlements/:settlementId",
		middleware.RequirePermission(accessService, "verification", "transfer-verification", domain.ActionUpdate),
		middleware.StrictRateLimiter(),
		verificationHandler.VerifySettlement)

	return cronService
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (brute-force throttled)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}
