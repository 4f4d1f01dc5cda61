package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sweetshop/internal/config"
	"sweetshop/internal/handlers"
	"sweetshop/internal/middleware"
	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
	"sweetshop/internal/services"
	"sweetshop/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Sweet{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// RabbitMQ is optional; without a URL the service skips event publishing.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set; inventory events disabled")
	}

	app := newApp(cfg, db, mqClient)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp wires repositories, services, handlers and middleware into a Fiber
// app. Split out of main so tests can assemble the same app over a test
// database.
func newApp(cfg *config.Config, db *gorm.DB, mqClient *rabbitmq.Client) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	sweetRepo := repositories.NewGORMSweetRepository(db)

	authService := services.NewAuthService(userRepo, cfg)
	sweetService := services.NewSweetService(sweetRepo, mqClient)

	authHandler := handlers.NewAuthHandler(authService)
	sweetHandler := handlers.NewSweetHandler(sweetService)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(cfg.AppEnv),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "OK",
			"message": "Sweet Shop API is running",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	sweetHandler.RegisterRoutes(apiV1, middleware.AuthRequired(authService), middleware.AdminRequired())

	// Unmatched routes fall through to the generic error envelope.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	return app
}

// errorHandler renders uncaught errors as {error:{message}}. The stack is
// only included in development.
func errorHandler(appEnv string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		message := err.Error()
		payload := fiber.Map{"message": message}
		if code == fiber.StatusInternalServerError {
			if appEnv == "development" {
				payload["stack"] = fmt.Sprintf("%+v", err)
			} else {
				payload["message"] = "Internal Server Error"
			}
		}

		return c.Status(code).JSON(fiber.Map{"error": payload})
	}
}

// openDatabase opens the configured store. SQLite keeps local runs and tests
// self-contained; PostgreSQL is the production driver.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DatabaseDSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
