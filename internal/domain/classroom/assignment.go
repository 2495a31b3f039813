package classroom

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/classmode-backend/internal/domain/user"
)

// Assignment binds exactly one exercise to exactly one group, with an
// optional active date window. The (group_id, exercise_id) unique index is
// what guarantees at most one live assignment per pair; re-assigning the same
// pair updates the existing row. Assignments are hard-deleted, never
// soft-deleted.
type Assignment struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	GroupID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_assignment_group_exercise" json:"group_id"`
	Group      *Group    `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`
	ExerciseID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_assignment_group_exercise" json:"exercise_id"`
	Exercise   *Exercise `gorm:"foreignKey:ExerciseID;references:ID" json:"exercise,omitempty"`

	CreatorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator   *user.User `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`

	// nil means the window edge is unset, not "zero time".
	InitDate *time.Time `gorm:"column:init_date" json:"initDate,omitempty"`
	EndDate  *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Assignment) TableName() string { return "assignment" }
