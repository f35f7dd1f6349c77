package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the marketplace-facing data of an account. Its ID is the user ID.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  *string   `gorm:"size:100" json:"full_name"`
	Phone     *string   `gorm:"size:20" json:"phone"`
	UserType  UserType  `gorm:"size:20;not null;default:'seeker'" json:"user_type"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the full name or an empty string.
func (p *Profile) DisplayName() string {
	if p.FullName == nil {
		return ""
	}
	return *p.FullName
}
