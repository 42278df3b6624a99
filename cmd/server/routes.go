package main

import (
	"github.com/devfolio/devfolio/internal/middleware"
	"github.com/devfolio/devfolio/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS())
	r.MaxMultipartMemory = svc.cfg.Upload.MaxSizeMB << 20

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "devfolio"})
	})

	// Ingested media
	r.Static("/uploads", svc.cfg.Upload.Dir)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Public routes whose content varies by viewer (draft visibility)
		public := api.Group("")
		public.Use(middleware.OptionalAuth())
		{
			public.GET("/projects", svc.projectHandler.List)
			public.GET("/projects/:id", svc.projectHandler.GetByID)
			public.GET("/projects/:id/comments", svc.projectHandler.ListComments)
			public.GET("/users/:username", svc.userHandler.GetProfile)
			public.GET("/users/:username/followers", svc.userHandler.Followers)
			public.GET("/users/:username/following", svc.userHandler.Following)
			public.GET("/search", svc.searchHandler.Search)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), touchLastSeen(svc))
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			// Profile
			protected.PUT("/users/me", svc.userHandler.UpdateProfile)
			protected.POST("/users/:username/follow", svc.userHandler.Follow)
			protected.DELETE("/users/:username/follow", svc.userHandler.Unfollow)

			// Projects
			protected.POST("/projects", svc.projectHandler.Create)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)
			protected.POST("/projects/:id/like", svc.projectHandler.ToggleLike)
			protected.POST("/projects/:id/comments", svc.projectHandler.AddComment)

			// Feed
			protected.GET("/feed", svc.projectHandler.Feed)

			// Notifications
			protected.GET("/notifications", svc.notificationHandler.List)
			protected.GET("/notifications/unread-count", svc.notificationHandler.UnreadCount)
		}
	}
}

// touchLastSeen refreshes the actor's last-seen timestamp after each
// authenticated request.
func touchLastSeen(svc *appServices) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if userID := middleware.GetUserID(c); userID != 0 {
			svc.userService.TouchLastSeen(userID)
		}
	}
}
