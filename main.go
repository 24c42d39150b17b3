package main

import (
	"flag"
	"log"

	"testline/config"
	"testline/handlers"
	"testline/middleware"
	"testline/models"
	"testline/routes"
	"testline/seed"
	"testline/services"
	"testline/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	seedData := flag.Bool("seed", false, "load demo users and sample subjects before serving")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Test{},
		&models.Question{},
		&models.Answer{},
		&models.Attempt{},
		&models.UserAnswer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if *seedData {
		if err := seed.Run(db); err != nil {
			log.Fatal("Failed to seed database:", err)
		}
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize storage and services
	store := storage.NewGorm(db)
	authService := services.NewAuthService(store, cfg.JWTSecret)
	catalogService := services.NewCatalogService(store)
	progressionService := services.NewProgressionService(store)
	attemptService := services.NewAttemptService(store, progressionService)
	randomService := services.NewRandomService(store, progressionService, redisClient)
	resultService := services.NewResultService(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	subjectHandler := handlers.NewSubjectHandler(catalogService, progressionService)
	testHandler := handlers.NewTestHandler(catalogService, progressionService, attemptService, resultService)
	randomHandler := handlers.NewRandomHandler(catalogService, randomService, attemptService)
	resultHandler := handlers.NewResultHandler(resultService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, subjectHandler, testHandler, randomHandler, resultHandler, cfg.JWTSecret)

	// Start server
	addr := cfg.BindAddress + ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
