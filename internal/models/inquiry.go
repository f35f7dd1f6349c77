package models

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a contact message sent to a listing owner.
type Inquiry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"listing_id"`
	SenderName  string     `gorm:"size:100;not null" json:"sender_name"`
	SenderEmail string     `gorm:"size:255;not null" json:"sender_email"`
	SenderPhone *string    `gorm:"size:20" json:"sender_phone,omitempty"`
	Message     string     `gorm:"size:1000;not null" json:"message"`
	SenderID    *uuid.UUID `gorm:"type:uuid;index" json:"sender_id,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	Listing     Listing    `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Inquiry) TableName() string {
	return "listing_inquiries"
}
