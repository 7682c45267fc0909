package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workspace-service/internal/api/http/handlers"
	"github.com/spec-kit/workspace-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tasks          *handlers.TasksHandler
	Projects       *handlers.ProjectsHandler
	Categories     *handlers.CategoriesHandler
	Pages          *handlers.PagesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireCapability(auth.CapabilityManageUsers))
	users.Get("/", cfg.Auth.ListUsers)
	users.Delete("/:id", cfg.Auth.DeleteUser)

	registerResource(app, "/tasks", cfg.AuthMiddleware, resourceHandlers{
		create: cfg.Tasks.Create,
		list:   cfg.Tasks.List,
		get:    cfg.Tasks.Get,
		update: cfg.Tasks.Update,
		delete: cfg.Tasks.Delete,
	})
	registerResource(app, "/projects", cfg.AuthMiddleware, resourceHandlers{
		create: cfg.Projects.Create,
		list:   cfg.Projects.List,
		get:    cfg.Projects.Get,
		update: cfg.Projects.Update,
		delete: cfg.Projects.Delete,
	})
	registerResource(app, "/categories", cfg.AuthMiddleware, resourceHandlers{
		create: cfg.Categories.Create,
		list:   cfg.Categories.List,
		get:    cfg.Categories.Get,
		update: cfg.Categories.Update,
		delete: cfg.Categories.Delete,
	})
	registerResource(app, "/pages", cfg.AuthMiddleware, resourceHandlers{
		create: cfg.Pages.Create,
		list:   cfg.Pages.List,
		get:    cfg.Pages.Get,
		update: cfg.Pages.Update,
		delete: cfg.Pages.Delete,
	})
}

type resourceHandlers struct {
	create fiber.Handler
	list   fiber.Handler
	get    fiber.Handler
	update fiber.Handler
	delete fiber.Handler
}

// registerResource wires the uniform CRUD surface: reads need view_own,
// mutations need edit_own. Wider access (view_all, edit_all) is resolved
// per-entity in the services.
func registerResource(app *fiber.App, prefix string, mw *auth.AuthMiddleware, h resourceHandlers) {
	group := app.Group(prefix, mw.Handle)
	group.Get("/", auth.RequireCapability(auth.CapabilityViewOwn), h.list)
	group.Get("/:id", auth.RequireCapability(auth.CapabilityViewOwn), h.get)
	group.Post("/", auth.RequireCapability(auth.CapabilityEditOwn), h.create)
	group.Put("/:id", auth.RequireCapability(auth.CapabilityEditOwn), h.update)
	group.Delete("/:id", auth.RequireCapability(auth.CapabilityEditOwn), h.delete)
}
