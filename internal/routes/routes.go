package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/skillflow/skillflow-server/internal/config"
	"github.com/skillflow/skillflow-server/internal/handlers"
	"github.com/skillflow/skillflow-server/internal/middleware"
	"github.com/skillflow/skillflow-server/internal/users"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	userSvc *users.Service,
	authHandler *handlers.AuthHandler,
	skillsHandler *handlers.SkillsHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth routes are public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Returning from impersonation lives outside the /admin prefix: the token
	// issued by Impersonate carries the "act" claim, which the admin gate
	// rejects. The handler checks the claim against the saved admin itself.
	api.Post("/auth/impersonate/stop", middleware.JWTProtected(cfg), adminHandler.StopImpersonation)

	// Skills (JWT required)
	skills := api.Group("/skills", middleware.JWTProtected(cfg))
	skills.Get("/", skillsHandler.List)
	skills.Post("/sync", skillsHandler.Sync)
	skills.Get("/export.csv", skillsHandler.ExportCSV)
	skills.Delete("/", skillsHandler.Reset)

	// Announcements are readable by any authenticated user
	api.Get("/announcements", middleware.JWTProtected(cfg), adminHandler.ListAnnouncements)

	// Admin panel (JWT + admin role)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(userSvc, cfg))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users", adminHandler.CreateUser)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Post("/users/:id/password", adminHandler.ResetPassword)
	admin.Post("/users/:id/impersonate", adminHandler.Impersonate)
	admin.Get("/stats", adminHandler.Stats)
	admin.Post("/announcements", adminHandler.CreateAnnouncement)
	admin.Delete("/announcements/:id", adminHandler.DeleteAnnouncement)
	admin.Get("/audit-logs", adminHandler.ListAuditLogs)
	admin.Get("/export", adminHandler.Export)
	admin.Post("/import", adminHandler.Import)
}
