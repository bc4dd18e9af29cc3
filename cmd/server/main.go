package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/skillflow/skillflow-server/internal/admin"
	"github.com/skillflow/skillflow-server/internal/announce"
	"github.com/skillflow/skillflow-server/internal/audit"
	"github.com/skillflow/skillflow-server/internal/config"
	"github.com/skillflow/skillflow-server/internal/handlers"
	"github.com/skillflow/skillflow-server/internal/logging"
	"github.com/skillflow/skillflow-server/internal/middleware"
	"github.com/skillflow/skillflow-server/internal/routes"
	"github.com/skillflow/skillflow-server/internal/session"
	"github.com/skillflow/skillflow-server/internal/skills"
	"github.com/skillflow/skillflow-server/internal/store"
	"github.com/skillflow/skillflow-server/internal/users"
)

func main() {
	cfg := config.Load()

	// Record store: postgres or local sqlite, selected by configuration
	st, err := newStore(cfg)
	if err != nil {
		slog.Error("store initialization failed", "error", err, "driver", cfg.StorageDriver)
		os.Exit(1)
	}

	// JSON logging to stdout, with ERROR+ records batched into the store
	storeLogHandler := logging.Setup(st)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Services
	auditSvc := audit.NewService(st)
	userSvc := users.NewService(st, auditSvc, cfg.AdminEmail)
	skillRepo := skills.NewRepository(st)
	sessions := session.NewManager(st, auditSvc)
	announceSvc := announce.NewService(st, auditSvc)
	aggregator := admin.NewAggregator(st, userSvc, skillRepo)
	backupSvc := admin.NewBackupService(st, userSvc, skillRepo, auditSvc)

	if err := userSvc.SeedBootstrapAdmin(context.Background(), cfg.AdminName, cfg.AdminPassword); err != nil {
		slog.Error("bootstrap admin seeding failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, userSvc, sessions)
	skillsHandler := handlers.NewSkillsHandler(skillRepo)
	adminHandler := handlers.NewAdminHandler(cfg, userSvc, sessions, aggregator, backupSvc, announceSvc, auditSvc)
	healthHandler := handlers.NewHealthHandler(st)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, userSvc, authHandler, skillsHandler, adminHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StorageDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	storeLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := st.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("server stopped")
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StorageDriver {
	case "postgres":
		return store.NewPostgres(cfg.DSN())
	default:
		return store.NewSQLite(cfg.SQLitePath)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
