package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/krishkalaria12/imageworld/archive"
	"github.com/krishkalaria12/imageworld/auth"
	handler "github.com/krishkalaria12/imageworld/handlers"
	"github.com/krishkalaria12/imageworld/middleware"
	"github.com/krishkalaria12/imageworld/repository"
	"github.com/krishkalaria12/imageworld/transform"
	"github.com/rs/zerolog"
)

type Deps struct {
	Auth           *auth.Service
	Accounts       repository.AccountRepository
	Logs           repository.ProcessingLogRepository
	Transformer    transform.Transformer
	Archiver       archive.Archiver
	Logger         zerolog.Logger
	BodyLimitMB    int
	AllowedOrigins string
}

// New builds the fiber app with all routes mounted.
func New(d Deps) *fiber.App {
	bodyLimit := d.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 101
	}

	app := fiber.New(fiber.Config{
		AppName:      "imageworld",
		BodyLimit:    bodyLimit * 1024 * 1024,
		ErrorHandler: handler.ErrorHandler(d.Logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Logger.With().Str("component", "http").Logger()))

	allowedOrigins := d.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	SetupRoutes(app, d)
	return app
}

func SetupRoutes(app *fiber.App, d Deps) {
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Accounts, d.Logs, d.Logger)
	imageHandler := handler.NewImageHandler(d.Accounts, d.Logs, d.Transformer, d.Archiver, d.Logger)
	requireAuth := middleware.AuthMiddleware(d.Auth)

	api := app.Group("/api")
	api.Get("/health", handler.Health)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, userHandler.Me)

	// Images
	images := api.Group("/images", requireAuth)
	images.Post("/resize", imageHandler.Resize)
	images.Post("/convert", imageHandler.Convert)
	images.Post("/compress", imageHandler.Compress)

	// Subscription and dashboard
	api.Post("/subscription/upgrade", requireAuth, userHandler.Upgrade)
	api.Get("/dashboard/stats", requireAuth, userHandler.DashboardStats)
}
