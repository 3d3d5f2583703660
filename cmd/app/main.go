package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	gatekeeper "github.com/helioslabs/gatekeeper"
	"github.com/helioslabs/gatekeeper/internal/config"
	"github.com/helioslabs/gatekeeper/internal/db"
	"github.com/helioslabs/gatekeeper/internal/routes"
	"github.com/helioslabs/gatekeeper/zapLogger"
)

func main() {
	// Initialize zapLogger
	logFile := zapLogger.Init()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Log.Fatalf("Failed to load config: %v", err)
	}

	pgDB, err := db.NewPostgresDB(cfg)
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	zapLogger.Log.Info("Successfully connected to PostgreSQL database")
	defer pgDB.Close()

	redisDB, err := db.NewRedisClient(cfg)
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize Redis: %v", err)
	}
	zapLogger.Log.Info("Successfully connected to Redis")
	defer redisDB.Close()

	svc, err := gatekeeper.NewService(gatekeeper.Config{
		DB:              pgDB.GormDB,
		RedisClient:     redisDB,
		CacheTTL:        cfg.CacheTTL,
		CachePrefix:     "gatekeeper:",
		AutoMigrate:     true,
		DecisionTimeout: cfg.DecisionTimeout,
		Logger:          zapLogger.Log,
	})
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize access service: %v", err)
	}

	// Set up Fiber app
	app := fiber.New()

	// Middleware
	app.Use(zapLogger.FiberLoggingMiddleware(logFile))

	// Set up routes
	routes.Setup(app, svc)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.AppPort)
	zapLogger.Log.Infof("Server started on port %d", cfg.AppPort)
	log.Fatal(app.Listen(addr))
}
