package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

type Repos struct {
	User       repos.UserRepo
	Group      repos.GroupRepo
	Exercise   repos.ExerciseRepo
	Assignment repos.AssignmentRepo
	Task       repos.TaskRepo
	Membership repos.MembershipRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		Group:      repos.NewGroupRepo(db, log),
		Exercise:   repos.NewExerciseRepo(db, log),
		Assignment: repos.NewAssignmentRepo(db, log),
		Task:       repos.NewTaskRepo(db, log),
		Membership: repos.NewMembershipRepo(db, log),
	}
}
