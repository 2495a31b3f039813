package classroom

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/domain/user"
)

// Exercise is the unit of content a teacher assigns to groups. Content holds
// the hardware/software configuration payload and is opaque to this service.
type Exercise struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`

	CreatorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator   *user.User `gorm:"foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	TeacherID uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher   *user.User `gorm:"foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`

	Content datatypes.JSON `gorm:"column:content;type:jsonb" json:"content"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Exercise) TableName() string { return "exercise" }

// IsOwner reports whether userID created or teaches this exercise.
func (e *Exercise) IsOwner(userID uuid.UUID) bool {
	return e.CreatorID == userID || e.TeacherID == userID
}
