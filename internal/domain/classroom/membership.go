package classroom

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/classmode-backend/internal/domain/user"
)

const (
	RoleStudent    = "student"
	RoleTeacher    = "teacher"
	RoleHeadmaster = "headmaster"
)

// Membership records a user's role inside a center and, for students and
// teachers, optionally inside a specific group. Headmaster rows carry a nil
// GroupID: the role spans the whole center.
type Membership struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	UserID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User     *user.User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	CenterID uuid.UUID  `gorm:"type:uuid;not null;index" json:"center_id"`
	Center   *Center    `gorm:"foreignKey:CenterID;references:ID" json:"center,omitempty"`
	GroupID  *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	Group    *Group     `gorm:"foreignKey:GroupID;references:ID" json:"group,omitempty"`

	Role string `gorm:"column:role;not null;index" json:"role"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Membership) TableName() string { return "membership" }
