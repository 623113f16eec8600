package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hospital-records-server/internal/config"
	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/routes"
	"hospital-records-server/internal/seclog"
	"hospital-records-server/internal/stores/patientstore"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using process environment")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize security/audit logging
	secLogger, err := seclog.New(cfg.Logs)
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer secLogger.Close()

	// Initialize the user database
	db, err := models.InitDB(models.DatabaseConfig{Path: cfg.Database.Path})
	if err != nil {
		log.Fatalf("Error connecting to user database: %v", err)
	}

	// Initialize the patient document store
	ctx := context.Background()
	store, err := patientstore.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("Error connecting to patient store: %v", err)
	}
	defer store.Close(ctx)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.Default()

	// Session cookies: HTTP-only, Secure, SameSite=Lax, expiring after the
	// configured idle period.
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(middleware.SessionOptions(cfg.SessionIdleMinutes))
	router.Use(sessions.Sessions(cfg.SessionName, sessionStore))

	// Anti-forgery protection for every state-mutating request
	router.Use(middleware.CSRF(secLogger))

	// Server-rendered templates
	router.LoadHTMLGlob("web/templates/*.html")

	// Set up routes
	routes.SetupRoutes(router, db, store, cfg, secLogger)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	secLogger.Info("server starting", "port", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
