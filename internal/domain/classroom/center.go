package classroom

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Center is the organizational unit a group belongs to. A center's
// headmaster holds elevated authorization over every group in it.
type Center struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null;column:name" json:"name"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Center) TableName() string { return "center" }
