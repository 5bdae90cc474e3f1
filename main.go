package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"product-api/internal/app"
	"product-api/internal/config"
	"product-api/internal/database"
	"product-api/internal/logger"
	"product-api/internal/models"
	"product-api/internal/money"
	"product-api/internal/repositories"
	"product-api/internal/services"
	"product-api/pkg/rabbitmq"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting product API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// --- Storage ---
	store, db, err := openStore(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
	}

	if cfg.Server.SeedProducts {
		seedProducts(store, log)
	}

	// --- Product events (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		})
		if err != nil {
			log.Fatal("Failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = mqClient
		log.Info("Publishing product events", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}

	// --- Service and HTTP app ---
	productService := services.NewProductService(store, publisher, log)
	fiberApp := app.New(app.Options{
		ProductService: productService,
		Logger:         log,
		JWTSecret:      cfg.Auth.JWTSecret,
	})

	// Graceful shutdown handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server listening", zap.String("addr", cfg.Server.Port))
		if err := fiberApp.Listen(cfg.Server.Port); err != nil {
			log.Error("Server stopped listening", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	if err := fiberApp.Shutdown(); err != nil {
		log.Error("Error during Fiber shutdown", zap.Error(err))
	}
	log.Info("Server gracefully stopped")
}

// openStore returns the product store for the configured driver. db is nil for
// the in-memory store.
func openStore(cfg config.DatabaseConfig, log *zap.Logger) (repositories.ProductStore, *gorm.DB, error) {
	if cfg.Driver == config.DriverMemory {
		return repositories.NewMemoryProductStore(), nil, nil
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewGORMProductStore(db), db, nil
}

// seedProducts populates the store with some demo products.
func seedProducts(store repositories.ProductStore, log *zap.Logger) {
	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Category: "Computers", Price: money.RequireFromString("1200.00"), Stock: 10},
		{Name: "Keyboard", Description: "Mechanical keyboard", Category: "Peripherals", Price: money.RequireFromString("75.00"), Stock: 25},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", Category: "Peripherals", Price: money.RequireFromString("25.00"), Stock: 50},
	}

	uow := store.NewContext()
	for i := range products {
		uow.Add(&products[i])
	}
	if err := uow.SaveChanges(context.Background()); err != nil {
		log.Error("Error seeding products", zap.Error(err))
		return
	}
	for _, p := range products {
		log.Info("Seeded product", zap.String("name", p.Name), zap.Int("id", p.ID))
	}
}
