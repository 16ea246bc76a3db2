package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/Retail-api/internal/application/analytics"
	"github.com/jhoicas/Retail-api/internal/application/auth"
	"github.com/jhoicas/Retail-api/internal/application/billing"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	AccountUC      *usecase.AccountUseCase
	ClientUC       *usecase.ClientUseCase
	InvoiceUC      *billing.InvoiceUseCase
	PaymentUC      *billing.PaymentUseCase
	SeriesUC       *appanalytics.CategorySeriesUseCase
	Metrics        *metrics.Metrics
	Cookies        CookieConfig
	LoginPerMinute int
	ServiceName    string
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Log, deps.Metrics))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")
	session := RequireSession(deps.AuthUC)
	scopes := tenant.NewResolver(deps.ClientUC)

	// Auth (login/logout/session públicos; select-client solo super admin)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.ClientUC, deps.Cookies, deps.Metrics, deps.Log)
	authGroup.Post("/login", LoginLimiter(deps.LoginPerMinute, deps.Metrics), authHandler.Login)
	authGroup.Get("/session", authHandler.Session)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/select-client", session, RequireSuperAdmin(), authHandler.SelectClient)

	// Invoices y abonos (protegido)
	invoices := api.Group("/invoices", session)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, scopes, deps.Log)
	paymentHandler := NewPaymentHandler(deps.PaymentUC, scopes, deps.Log)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Patch("/payments/revert", paymentHandler.RevertByIndex)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/payments", paymentHandler.Apply)
	invoices.Delete("/:id/payments/:paymentId", paymentHandler.RevertByID)

	// Users (protegido)
	users := api.Group("/users", session)
	userHandler := NewUserHandler(deps.AccountUC, deps.AuthUC, scopes, deps.Log)
	users.Get("/", RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleManager), userHandler.List)
	users.Post("/", RequireSuperAdmin(), userHandler.Create)
	users.Post("/toggle-status", userHandler.ToggleStatus)

	// Clients (solo super admin)
	clients := api.Group("/clients", session, RequireSuperAdmin())
	clientHandler := NewClientHandler(deps.ClientUC, deps.Log)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)

	// Dashboard (protegido)
	dashboard := api.Group("/dashboard", session)
	dashboardHandler := NewDashboardHandler(deps.SeriesUC, scopes, deps.Log)
	dashboard.Get("/category-series", dashboardHandler.GetCategorySeries)
}
