package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/classmode-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:       cfg.ServiceName,
		AuthHandler:       h.Auth,
		AuthMiddleware:    mw.Auth,
		AssignmentHandler: h.Assignment,
		GroupHandler:      h.Group,
	})
}
