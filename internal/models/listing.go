package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing is a rentable property with a moderation status.
type Listing struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title        string                      `gorm:"size:120;not null" json:"title"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Location     string                      `gorm:"size:255;not null" json:"location"`
	County       string                      `gorm:"size:50;not null;index" json:"county"`
	Price        int                         `gorm:"not null" json:"price"`
	Bedrooms     int                         `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms    int                         `gorm:"not null;default:0" json:"bathrooms"`
	Type         string                      `gorm:"size:50;not null" json:"type"`
	Amenities    datatypes.JSONSlice[string] `json:"amenities"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Status       ListingStatus               `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Rating       *float64                    `json:"rating"`
	ContactPhone *string                     `gorm:"size:20" json:"contact_phone,omitempty"`
	ContactEmail *string                     `gorm:"size:255" json:"contact_email,omitempty"`
	CreatedAt    time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// IsPublic reports whether the listing may be shown to anonymous visitors.
func (l *Listing) IsPublic() bool {
	return l.Status == ListingApproved
}
