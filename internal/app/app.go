package app

import (
	"time"

	"product-api/internal/handlers"
	"product-api/internal/middleware"
	"product-api/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Options carries the dependencies of the HTTP application.
type Options struct {
	ProductService *services.ProductService
	Logger         *zap.Logger
	JWTSecret      string // empty leaves the authorization hook open
}

// New builds the Fiber app: request id, request logging and the error boundary
// wrap every route; the authorization hook guards everything but /health.
func New(opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "product-api",
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.ErrorHandler(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	app.Use(middleware.Authorization(opts.JWTSecret, logger))

	productHandler := handlers.NewProductHandler(opts.ProductService, logger)
	productHandler.RegisterRoutes(app)

	return app
}
