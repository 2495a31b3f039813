package classroom

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/domain/user"
)

const (
	GroupStatusOpen       = "open"
	GroupStatusInProgress = "inProgress"
	GroupStatusClosed     = "closed"
)

// Group is a roster of students an exercise can be assigned to. Groups are
// soft-deleted only; access codes stay reserved by the deleted row, which is
// what keeps them from ever being reissued.
type Group struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null;column:name" json:"name"`

	Status string `gorm:"column:status;not null;default:'open'" json:"status"`

	// AccessCode is the fixed-width base36 enrollment code, unique across
	// live and deleted groups alike.
	AccessCode string `gorm:"uniqueIndex;not null;column:access_code" json:"access_code"`

	CreatorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator   *user.User `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	TeacherID uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher   *user.User `gorm:"foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`
	CenterID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"center_id"`
	Center    *Center    `gorm:"foreignKey:CenterID;references:ID" json:"center,omitempty"`

	Color string `gorm:"column:color" json:"color,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Group) TableName() string { return "classroom_group" }
