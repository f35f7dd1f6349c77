package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the single current role assignment of a user. A missing row
// means the default RoleUser.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user" json:"user_id"`
	Role      Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
