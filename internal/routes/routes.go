package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-records-server/internal/config"
	"hospital-records-server/internal/handlers"
	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/seclog"
)

// SetupRoutes configures the application routes. Session and CSRF
// middleware are registered globally by the caller; the patient and
// dashboard routes additionally require an active login.
func SetupRoutes(router *gin.Engine, db *gorm.DB, store handlers.PatientStore, cfg *config.Config, log *seclog.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg, log)
	patientHandler := handlers.NewPatientHandler(store, log)
	mainHandler := handlers.NewMainHandler(store, log)

	requireLogin := middleware.RequireLogin(log, time.Duration(cfg.SessionIdleMinutes)*time.Minute)

	auth := router.Group("/auth")
	{
		auth.GET("/register", authHandler.ShowRegister)
		auth.POST("/register", authHandler.Register)
		auth.GET("/login", authHandler.ShowLogin)
		auth.POST("/login", authHandler.Login)
		auth.GET("/logout", authHandler.Logout)
	}

	patient := router.Group("/patient")
	patient.Use(requireLogin)
	{
		patient.GET("/add", patientHandler.ShowAdd)
		patient.POST("/add", patientHandler.Add)
		patient.GET("/view", patientHandler.View)
		patient.GET("/edit/:id", patientHandler.ShowEdit)
		patient.POST("/edit/:id", patientHandler.Edit)
		patient.POST("/delete/:id", patientHandler.Delete)
		patient.GET("/search", patientHandler.Search)
		patient.POST("/search-by-id", patientHandler.SearchByID)
	}

	router.GET("/", mainHandler.Index)
	router.GET("/dashboard", requireLogin, mainHandler.Dashboard)

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
