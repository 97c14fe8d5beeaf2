package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dance-studio-backend/internal/config"
	"dance-studio-backend/internal/database"
	"dance-studio-backend/internal/email"
	"dance-studio-backend/internal/logger"
	"dance-studio-backend/internal/middleware"
	"dance-studio-backend/internal/social"
	"dance-studio-backend/internal/user/handler"
	"dance-studio-backend/internal/user/repository"
	"dance-studio-backend/internal/user/service"
)

func SetupRoutes(cfg *config.Config, db *database.Database) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userRepository := repository.NewRepository(db)
	sender := email.NewSMTPSender(&cfg.SMTP)
	authService := service.NewService(userRepository, sender, cfg)
	userHandler := handler.NewHandler(authService)

	googleProvider := social.NewGoogleProvider(&cfg.Google)
	socialHandler := social.NewHandler(googleProvider, authService, cfg)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			userHandler.RegisterRoutes(auth)

			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(cfg, userRepository))
			{
				userHandler.RegisterProtectedRoutes(protected)
			}
		}

		socialHandler.RegisterRoutes(api.Group("/social"))
	}

	logger.Info("All routes initialized")
	return router
}
