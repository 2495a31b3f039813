package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/jobs"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
	"github.com/yungbote/classmode-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Roster     services.RosterService
	Policy     services.PolicyService
	Fanout     services.TaskFanoutService
	Assignment services.AssignmentService
	Group      services.GroupService

	OrphanSweeper *jobs.OrphanSweeper
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	roster := services.NewRosterService(db, log, r.Membership)
	policy := services.NewPolicyService(db, log, r.Group, roster)
	fanout := services.NewTaskFanoutService(db, log, r.Group, r.Task, r.Assignment, roster)
	return Services{
		Auth:          services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Roster:        roster,
		Policy:        policy,
		Fanout:        fanout,
		Assignment:    services.NewAssignmentService(db, log, r.Assignment, r.Task, r.Exercise, fanout, policy),
		Group:         services.NewGroupService(db, log, r.Group, r.Assignment, r.Task, r.Membership, fanout, policy),
		OrphanSweeper: jobs.NewOrphanSweeper(db, log, r.Assignment, r.Task, cfg.SweepInterval),
	}
}
