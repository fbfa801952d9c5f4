package routes

import (
	"time"

	"homework-desk/internal/adapters/http/handlers"
	"homework-desk/internal/adapters/http/middleware"
	"homework-desk/internal/adapters/persistence/repositories"
	"homework-desk/internal/config"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Services holds the application services shared by the HTTP layer and
// the background jobs.
type Services struct {
	Store        *repositories.Store
	Notify       *services.NotifyService
	Auth         *services.AuthService
	Users        *services.UserService
	Requests     *services.RequestService
	Transactions *services.TransactionService
	Settings     *services.SettingsService
	Chat         *services.ChatService
	Analytics    *services.AnalyticsService
	Reports      *services.ReportService
}

// NewServices wires repositories and services over db
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	store := repositories.NewStore(db)
	notify := services.NewNotifyService()

	return &Services{
		Store:        store,
		Notify:       notify,
		Auth:         services.NewAuthService(store.Users, notify, cfg),
		Users:        services.NewUserService(store.Users, store.Requests, notify.Hub, notify),
		Requests:     services.NewRequestService(store, notify),
		Transactions: services.NewTransactionService(store, notify),
		Settings:     services.NewSettingsService(store, notify),
		Chat:         services.NewChatService(store, notify.Hub, notify, cfg.Chat.MaxFileBytes),
		Analytics:    services.NewAnalyticsService(store),
		Reports:      services.NewReportService(store),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, svc *Services) {
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	userHandler := handlers.NewUserHandler(svc.Users)
	requestHandler := handlers.NewRequestHandler(svc.Requests)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	settingsHandler := handlers.NewSettingsHandler(svc.Settings)
	chatHandler := handlers.NewChatHandler(svc.Chat)
	adminHandler := handlers.NewAdminHandler(svc.Analytics, svc.Reports)
	eventsHandler := handlers.NewEventsHandler(svc.Notify.Hub)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1", middleware.NoCacheHeaders())
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Price list is the same for everyone
	apiV1.Get("/pricing/rates", middleware.PublicCache(5*time.Minute), requestHandler.Rates)

	// Authenticated routes
	authed := apiV1.Group("", middleware.AuthMiddleware(cfg))
	authed.Get("/events", eventsHandler.Stream)
	setupProfileRoutes(authed.Group("/profile"), userHandler)
	setupStudentRoutes(authed, requestHandler, transactionHandler, settingsHandler)
	setupChatRoutes(authed.Group("/chat"), chatHandler)

	// Owner routes: chat inbox and PIN check need only the owner account.
	// They are registered before the panel group so its PIN check never runs for them.
	owner := authed.Group("/owner", middleware.OwnerOnly())
	owner.Get("/chat/inbox", chatHandler.Inbox)
	owner.Post("/pins/verify", middleware.PinRateLimiter(), settingsHandler.VerifyPin)

	// Verification panel behind the admin PIN
	panel := owner.Group("", middleware.PanelPin(svc.Settings, services.PinAdmin, middleware.VerificationPinHeader))
	setupVerificationRoutes(panel, transactionHandler, settingsHandler)

	// Dashboard behind the dashboard PIN
	admin := authed.Group("/admin",
		middleware.OwnerOnly(),
		middleware.PanelPin(svc.Settings, services.PinDashboard, middleware.DashboardPinHeader),
	)
	setupAdminRoutes(admin, userHandler, requestHandler, settingsHandler, adminHandler)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/pin", handler.ChangePin)
}

// setupStudentRoutes configures ordering and payment routes
func setupStudentRoutes(
	router fiber.Router,
	requestHandler *handlers.RequestHandler,
	transactionHandler *handlers.TransactionHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	router.Post("/pricing/quote", requestHandler.Quote)

	router.Get("/seasons", settingsHandler.Seasons)
	router.Post("/seasons/banner-click", settingsHandler.BannerClick)

	router.Post("/requests", requestHandler.Create)
	router.Get("/requests/mine", requestHandler.Mine)
	router.Get("/requests/:id", requestHandler.Get)

	router.Post("/transactions", transactionHandler.Create)
	router.Get("/transactions/mine", transactionHandler.Mine)
}

// setupChatRoutes configures messaging routes
func setupChatRoutes(router fiber.Router, handler *handlers.ChatHandler) {
	router.Post("/messages", handler.Send)
	router.Get("/messages", handler.Conversation)
	router.Post("/read", handler.MarkRead)
	router.Get("/unread", handler.Unread)
}

// setupVerificationRoutes configures the payment verification panel
func setupVerificationRoutes(router fiber.Router, transactionHandler *handlers.TransactionHandler, settingsHandler *handlers.SettingsHandler) {
	router.Get("/transactions/pending", transactionHandler.Queue)
	router.Get("/transactions/history", transactionHandler.History)
	router.Post("/transactions/:id/approve", transactionHandler.Approve)
	router.Post("/transactions/:id/reject", transactionHandler.Reject)
	router.Post("/transactions/:id/correct", transactionHandler.Correct)

	router.Put("/pins/:kind", settingsHandler.ChangePin)

	router.Get("/investment", settingsHandler.Investment)
	router.Put("/investment-mode", settingsHandler.SetInvestmentMode)
	router.Post("/balance/resync", settingsHandler.ResyncBalance)
}

// setupAdminRoutes configures the owner dashboard
func setupAdminRoutes(
	router fiber.Router,
	userHandler *handlers.UserHandler,
	requestHandler *handlers.RequestHandler,
	settingsHandler *handlers.SettingsHandler,
	adminHandler *handlers.AdminHandler,
) {
	router.Get("/analytics", adminHandler.Analytics)
	router.Get("/reports/export", adminHandler.Export)

	router.Get("/students", userHandler.ListStudents)
	router.Get("/students/:id", userHandler.GetStudent)

	router.Get("/requests", requestHandler.ListAll)
	router.Put("/requests/:id/status", requestHandler.UpdateStatus)
	router.Put("/requests/:id/payment", requestHandler.UpdatePaymentStatus)

	router.Put("/season", settingsHandler.SetSeason)
}
