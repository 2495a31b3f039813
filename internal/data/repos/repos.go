package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos/classroom"
	"github.com/yungbote/classmode-backend/internal/data/repos/user"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type GroupRepo = classroom.GroupRepo
type ExerciseRepo = classroom.ExerciseRepo
type AssignmentRepo = classroom.AssignmentRepo
type TaskRepo = classroom.TaskRepo
type MembershipRepo = classroom.MembershipRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return classroom.NewGroupRepo(db, baseLog)
}
func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	return classroom.NewExerciseRepo(db, baseLog)
}
func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return classroom.NewAssignmentRepo(db, baseLog)
}
func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return classroom.NewTaskRepo(db, baseLog)
}
func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return classroom.NewMembershipRepo(db, baseLog)
}
