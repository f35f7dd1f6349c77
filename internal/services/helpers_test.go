package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, userType models.UserType) uuid.UUID {
	t.Helper()
	name := "Test User"
	p := models.Profile{ID: uuid.New(), FullName: &name, UserType: userType}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

func seedListing(t *testing.T, db *gorm.DB, owner uuid.UUID, status models.ListingStatus, title string) models.Listing {
	t.Helper()
	l := models.Listing{
		OwnerID:     owner,
		Title:       title,
		Description: "Bright unit close to shops",
		Location:    "Kilimani",
		County:      "Nairobi",
		Price:       35000,
		Bedrooms:    2,
		Bathrooms:   1,
		Type:        "Apartment",
		Status:      status,
	}
	require.NoError(t, db.Create(&l).Error)
	return l
}

func validListingInput() ListingInput {
	return ListingInput{
		Title:       "Modern 2BR Apartment in Kilimani",
		Description: "Spacious apartment with a balcony and backup water.",
		Location:    "Kilimani, Nairobi",
		County:      "Nairobi",
		Price:       35000,
		Bedrooms:    2,
		Bathrooms:   2,
		Type:        "Apartment",
		Amenities:   []string{"Parking", "Security"},
		Images:      []string{"https://cdn.test/listing-images/a.jpg"},
	}
}
