package classroom

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/classmode-backend/internal/domain/user"
)

// Task is the per-student materialization of an assignment: the unit of work
// a student actually sees. The (student_id, exercise_id, group_id) unique
// index backs the check-and-create fan-out — exactly one task per enrolled
// student per assignment. Progress state belongs to the student/task
// lifecycle and is opaque here.
type Task struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	ExerciseID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_task_student_exercise_group" json:"exercise_id"`
	Exercise   *Exercise `gorm:"foreignKey:ExerciseID;references:ID" json:"exercise,omitempty"`
	GroupID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_task_student_exercise_group" json:"group_id"`
	Group      *Group    `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_task_student_exercise_group" json:"student_id"`
	Student    *user.User `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`

	TeacherID uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher   *user.User `gorm:"foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`
	CreatorID uuid.UUID  `gorm:"type:uuid;not null" json:"creator_id"`
	Creator   *user.User `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`

	InitDate *time.Time `gorm:"column:init_date" json:"initDate,omitempty"`
	EndDate  *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`

	Status   string         `gorm:"column:status;not null;default:'pending'" json:"status"`
	Progress datatypes.JSON `gorm:"column:progress;type:jsonb" json:"progress,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Task) TableName() string { return "task" }
