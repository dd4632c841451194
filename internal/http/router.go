package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/lingo/internal/auth"
	"github.com/mrlokans/lingo/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(logging.GinLogger(logger))
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.HSTS {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}
	if len(cfg.CORSOrigins) > 0 {
		router.Use(auth.CORSMiddleware(cfg.CORSOrigins))
	}

	router.NoRoute(func(c *gin.Context) {
		respondNotFound(c, "route")
	})

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Library, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	contentController := NewContentController(cfg.Library)
	progressController := NewProgressController(cfg.Progress)
	settingsController := NewSettingsController(cfg.Settings)
	meController := NewMeController(cfg.Users, cfg.Events)
	usersController := NewUsersController(cfg.Users)

	// Client API, authenticated with a bearer JWT
	api := router.Group("/api/v1")
	api.Use(auth.NewMiddleware(cfg.Verifier, logger).Handler())
	api.Use(RequireUser(cfg.Users))
	{
		api.GET("/languages", contentController.Languages)
		api.GET("/languages/:lang/modules", contentController.Modules)
		api.GET("/languages/:lang/modules/:module", contentController.Module)
		api.GET("/languages/:lang/modules/:module/units/:unit", contentController.Unit)
		api.GET("/languages/:lang/modules/:module/units/:unit/exercises", contentController.Exercises)
		api.GET("/languages/:lang/modules/:module/units/:unit/next", progressController.Next)

		api.POST("/progress/attempts", progressController.RecordAttempt)
		api.GET("/progress/stats", progressController.Stats)
		api.GET("/progress/:lang", progressController.Overview)
		api.DELETE("/progress/:lang", progressController.Reset)
		api.GET("/progress/:lang/topics", progressController.Topics)
		api.GET("/progress/:lang/history", progressController.History)
		api.GET("/progress/:lang/modules/:module/units/:unit", progressController.Unit)

		api.GET("/settings", settingsController.Get)
		api.PATCH("/settings", settingsController.Update)
		api.PUT("/settings/onboarding", settingsController.SetOnboardingStep)

		api.GET("/me", meController.Me)
		if cfg.Events != nil {
			api.GET("/me/events", meController.Events)
		}
	}

	// Internal API for the auth service, authenticated with a shared secret
	internal := router.Group("/internal")
	internal.Use(auth.InternalSecret(cfg.InternalSecret, cfg.InternalLimiter, logger))
	{
		internal.POST("/users", usersController.Create)
		internal.GET("/users/:id", usersController.Get)
		internal.DELETE("/users/:id", usersController.Delete)

		// Task management endpoints
		if cfg.TaskClient != nil && cfg.Maintenance != nil {
			tasksController := NewTasksController(cfg.TaskClient, cfg.Maintenance)
			internal.GET("/tasks/types", tasksController.ListTaskTypes)
			internal.GET("/tasks/:id", tasksController.GetTaskStatus)
			internal.POST("/tasks/:type/run", tasksController.RunTask)
		}
	}

	return router
}
