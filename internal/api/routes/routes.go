package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/api/handlers"
	"github.com/automeet/automeet/backend/internal/api/middleware"
	"github.com/automeet/automeet/backend/internal/audit"
	"github.com/automeet/automeet/backend/internal/cache"
	"github.com/automeet/automeet/backend/internal/config"
	"github.com/automeet/automeet/backend/internal/database"
	"github.com/automeet/automeet/backend/internal/metrics"
	"github.com/automeet/automeet/backend/internal/models"
	"github.com/automeet/automeet/backend/internal/services"
	"github.com/automeet/automeet/backend/internal/store"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := database.Migrate(db); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery(cfg.Environment == "development"))

	// Shared infrastructure
	recorder := audit.NewRecorder(db)
	redisCache := cache.New(cfg)
	mailService := services.NewMailService(cfg)

	// Services
	notificationService := services.NewNotificationService(db, cfg)
	userService := services.NewUserService(db, recorder, cfg)
	verificationService := services.NewVerificationService(db, recorder, redisCache, mailService)
	meetingService := services.NewMeetingService(db, recorder, notificationService)
	teamService := services.NewTeamService(db, recorder, mailService, notificationService, cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, verificationService)
	userHandler := handlers.NewUserHandler(userService)
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	teamHandler := handlers.NewTeamHandler(teamService)
	roleHandler := handlers.NewRoleHandler(db)
	settingsHandler := handlers.NewNotificationSettingsHandler(notificationService)
	logHandler := handlers.NewActivityLogHandler(store.New[models.ActivityLog](db))

	// Public routes
	authGroup := api.Group("/auth")
	authHandler.RegisterRoutes(authGroup)
	teamHandler.RegisterPublicRoutes(api)

	// Authenticated routes
	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		authHandler.RegisterAuthedRoutes(protected.Group("/auth"))
		userHandler.RegisterRoutes(protected)
		meetingHandler.RegisterRoutes(protected)
		teamHandler.RegisterRoutes(protected)
		roleHandler.RegisterRoutes(protected)
		settingsHandler.RegisterRoutes(protected)
		logHandler.RegisterRoutes(protected)
	}

	// Background housekeeping
	cleanup := services.NewCleanupService(verificationService, teamService)
	if err := cleanup.Start(); err != nil {
		return err
	}

	return nil
}
