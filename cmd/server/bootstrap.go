package main

import (
	"os"

	"github.com/devfolio/devfolio/internal/config"
	"github.com/devfolio/devfolio/internal/handlers"
	"github.com/devfolio/devfolio/internal/models"
	"github.com/devfolio/devfolio/internal/services"
	"github.com/devfolio/devfolio/internal/utils"
	"github.com/devfolio/devfolio/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg                 *config.Config
	userService         *services.UserService
	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	projectHandler      *handlers.ProjectHandler
	searchHandler       *handlers.SearchHandler
	notificationHandler *handlers.NotificationHandler
}

// bootstrap initializes all application dependencies: database, media
// storage, services, handlers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Ensure the upload root exists before the first ingestion
	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		logger.Fatalf("Failed to create upload directory: %v", err)
	}

	db := models.GetDB()
	mediaService := services.NewMediaService(cfg.Upload.Dir)

	return &appServices{
		cfg:                 cfg,
		userService:         services.NewUserService(db),
		authHandler:         handlers.NewAuthHandler(db, cfg),
		userHandler:         handlers.NewUserHandler(db, mediaService),
		projectHandler:      handlers.NewProjectHandler(db, mediaService),
		searchHandler:       handlers.NewSearchHandler(db),
		notificationHandler: handlers.NewNotificationHandler(db),
	}
}
