package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/classmode-backend/internal/handlers"
	"github.com/yungbote/classmode-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	AssignmentHandler *handlers.AssignmentHandler
	GroupHandler      *handlers.GroupHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Assignments
	protected.POST("/exercises/:exerciseId/assign", cfg.AssignmentHandler.Assign)
	protected.DELETE("/exercises/:exerciseId/groups/:groupId", cfg.AssignmentHandler.Unassign)
	protected.GET("/exercises/:exerciseId/groups", cfg.AssignmentHandler.GetGroups)
	protected.GET("/groups/:groupId/exercises", cfg.AssignmentHandler.GetExercises)
	// Groups
	protected.POST("/groups", cfg.GroupHandler.Create)
	protected.DELETE("/groups/:groupId", cfg.GroupHandler.Delete)
	protected.POST("/groups/enroll", cfg.GroupHandler.Enroll)

	return router
}
