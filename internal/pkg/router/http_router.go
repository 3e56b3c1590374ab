package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/serenadigital/serena/app/controllers"
	"github.com/serenadigital/serena/app/repository"
	"github.com/serenadigital/serena/internal/pkg/access"
	"github.com/serenadigital/serena/internal/pkg/checkout"
	"github.com/serenadigital/serena/internal/pkg/constants"
	"github.com/serenadigital/serena/internal/pkg/database"
	"github.com/serenadigital/serena/internal/pkg/mail"
	"github.com/serenadigital/serena/internal/pkg/middleware"
	"github.com/serenadigital/serena/internal/pkg/session"
	"github.com/serenadigital/serena/internal/pkg/token"
)

type HttpRouter struct {
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

// InstallRouter wires all collaborators and registers every route.
func InstallRouter(app *fiber.App) {
	NewHttpRouter().InstallRouter(app)
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	db := database.GetDB()
	cfg := checkout.ConfigFromEnv()
	repos := repository.NewFactory(db).GetRepositories()

	pipeline := checkout.NewPipeline(
		cfg,
		checkout.NewRepository(db),
		token.NewIssuer(token.NewRepository(db)),
		mail.NewSMTPMailer(),
	)
	guard := access.NewGuard(access.NewRepository(db))

	controllers.InitializeWebhookController(cfg, pipeline)
	controllers.InitializeAuthController(repos)
	controllers.InitializeMemberController(guard, repos)
	controllers.InitializeAdminController(repos)
	controllers.InitializeMainController(cfg, repos)

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerMemberRoutes(app)
	h.registerAdminRoutes(app)
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get(constants.PublicRoute, controllers.HandleLanding)
	app.Get("/p/:slug", controllers.HandleProductLanding)

	app.Get(constants.LoginRoute, controllers.HandleAuthLogin)
	app.Post(constants.LoginRoute, controllers.HandleAuthLogin)
	app.Get(constants.LogoutRoute, controllers.HandleAuthLogout)

	app.Get(constants.SetPasswordRoute, controllers.HandleSetPassword)
	app.Post(constants.SetPasswordRoute, controllers.HandleSetPassword)
	app.Get(constants.RecoveryRoute, controllers.HandlePasswordRecovery)
	app.Post(constants.RecoveryRoute, controllers.HandlePasswordRecovery)

	// Provider-facing webhook ingress; authenticated by shared secret,
	// not by session.
	app.Post(constants.WebhookRoute, controllers.HandleCheckoutWebhook)
}

func (h HttpRouter) registerMemberRoutes(app *fiber.App) {
	member := app.Group(constants.MemberRoute, middleware.RequireAuth)
	member.Get("/", controllers.HandleMemberHome)
	member.Post("/suporte", controllers.HandleSupportTicketCreate)
	member.Get("/:slug", controllers.HandleMemberProduct)
	member.Get("/:slug/ebook", controllers.HandleEbookView)
	member.Get("/:slug/ebook/download", controllers.HandleEbookDownload)
}

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	admin := app.Group(constants.AdminRoute, middleware.RequireAdmin)
	admin.Get("/", controllers.HandleAdminDashboard)
	admin.Get("/users", controllers.HandleAdminUsers)
	admin.Get("/purchases", controllers.HandleAdminPurchases)
	admin.Get("/products", controllers.HandleAdminProducts)
	admin.Get("/products/:id", controllers.HandleAdminProductEdit)
	admin.Post("/products/:id", controllers.HandleAdminProductEdit)
	admin.Get("/tickets", controllers.HandleAdminTickets)
	admin.Post("/tickets/:uuid/close", controllers.HandleAdminTicketClose)
}
