package services

import (
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// withStatus returns a GORM scope that filters listings by moderation status.
func withStatus(status models.ListingStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

// ownedBy returns a GORM scope that filters listings by owner.
func ownedBy(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
