// Package routes defines HTTP routes for the TeamFlow API.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/teamflow/teamflow-api/docs"
	"github.com/teamflow/teamflow-api/internal/config"
	"github.com/teamflow/teamflow-api/internal/handlers"
	"github.com/teamflow/teamflow-api/internal/metrics"
	"github.com/teamflow/teamflow-api/internal/middleware"
	"github.com/teamflow/teamflow-api/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Tasks     *handlers.TaskHandler
	Teams     *handlers.TeamHandler
	Dashboard *handlers.DashboardHandler
	Admin     *handlers.AdminHandler
	Health    *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, jwtService service.JWTService, m *metrics.Metrics, cfg *config.Config, log logrus.FieldLogger) {
	router.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		}),
		m.Middleware(),
		gin.Recovery(),
	)

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	authRequired := middleware.Auth(jwtService)

	portal := api.Group("/portal")
	{
		portal.POST("/register", h.Auth.Register)
		portal.POST("/login", h.Auth.Login)
		portal.GET("/user", authRequired, h.Auth.CurrentUser)
		portal.GET("/refresh", authRequired, h.Auth.Refresh)
		portal.POST("/logout", authRequired, h.Auth.Logout)
	}

	tasks := api.Group("/tasks", authRequired)
	{
		tasks.GET("", h.Tasks.List)
		tasks.POST("", h.Tasks.Create)
		tasks.PUT("/:id", h.Tasks.Update)
		tasks.DELETE("/:id", h.Tasks.Delete)
	}

	teams := api.Group("/teams", authRequired)
	{
		teams.GET("", h.Teams.List)
		teams.POST("", h.Teams.Create)
		teams.DELETE("/:id", h.Teams.Delete)
		teams.POST("/:id/members", h.Teams.AddMember)
		teams.DELETE("/:id/members/:userId", h.Teams.RemoveMember)
	}

	dashboard := api.Group("/dashboard", authRequired)
	{
		dashboard.GET("/stats", h.Dashboard.Stats)
		dashboard.GET("/activity", h.Dashboard.Activity)
		dashboard.POST("/task", h.Dashboard.QuickTask)
	}

	admin := api.Group("/admin/users", authRequired, middleware.RequireAdmin())
	{
		admin.GET("", h.Admin.ListUsers)
		admin.GET("/stats", h.Admin.Stats)
		admin.GET("/:id", h.Admin.GetUser)
		admin.PUT("/:id", h.Admin.UpdateUser)
		admin.PUT("/:id/reset-password", h.Admin.ResetPassword)
		admin.DELETE("/:id", h.Admin.DeleteUser)
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
