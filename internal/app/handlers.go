package app

import (
	"github.com/yungbote/classmode-backend/internal/handlers"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Assignment *handlers.AssignmentHandler
	Group      *handlers.GroupHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(log, s.Auth),
		Assignment: handlers.NewAssignmentHandler(log, s.Assignment),
		Group:      handlers.NewGroupHandler(log, s.Group),
	}
}
