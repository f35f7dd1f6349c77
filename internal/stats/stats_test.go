package stats

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalRate(t *testing.T) {
	assert.Equal(t, 0, ApprovalRate(0, 0))
	assert.Equal(t, 75, ApprovalRate(3, 4))
	assert.Equal(t, 67, ApprovalRate(2, 3))
	assert.Equal(t, 100, ApprovalRate(5, 5))
}

func TestReduceCounts(t *testing.T) {
	listings := []models.Listing{
		{Status: models.ListingApproved, Type: "Apartment"},
		{Status: models.ListingApproved, Type: "Apartment"},
		{Status: models.ListingApproved, Type: "Studio"},
		{Status: models.ListingPending, Type: "Villa"},
	}
	profiles := []models.Profile{
		{UserType: models.UserTypeOwner},
		{UserType: models.UserTypeSeeker},
		{UserType: models.UserTypeSeeker},
	}
	inquiries := []models.Inquiry{{}, {}}

	s := Reduce(listings, profiles, inquiries)
	assert.Equal(t, 4, s.TotalListings)
	assert.Equal(t, 3, s.ApprovedListings)
	assert.Equal(t, 1, s.PendingListings)
	assert.Equal(t, 0, s.RejectedListings)
	assert.Equal(t, 75, s.ApprovalRate)
	assert.Equal(t, map[string]int{"Apartment": 2, "Studio": 1, "Villa": 1}, s.ListingsByType)
	assert.Equal(t, 3, s.TotalUsers)
	assert.Equal(t, 1, s.Owners)
	assert.Equal(t, 2, s.Seekers)
	assert.Equal(t, 2, s.TotalInquiries)
}

func TestReduceEmpty(t *testing.T) {
	s := Reduce(nil, nil, nil)
	assert.Zero(t, s.TotalListings)
	assert.Zero(t, s.ApprovalRate)
	assert.Empty(t, s.RecentListings)
	assert.Empty(t, s.RecentUsers)
}

func TestReduceRecentNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	listings := make([]models.Listing, 8)
	profiles := make([]models.Profile, 3)
	for i := range listings {
		listings[i] = models.Listing{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
	}
	for i := range profiles {
		profiles[i] = models.Profile{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
	}
	firstID := listings[0].ID

	s := Reduce(listings, profiles, nil)
	require.Len(t, s.RecentListings, RecentLimit)
	for i := 1; i < len(s.RecentListings); i++ {
		assert.True(t, s.RecentListings[i-1].CreatedAt.After(s.RecentListings[i].CreatedAt))
	}
	assert.Equal(t, listings[7].ID, s.RecentListings[0].ID)
	require.Len(t, s.RecentUsers, 3)
	assert.Equal(t, profiles[2].ID, s.RecentUsers[0].ID)

	// input order untouched
	assert.Equal(t, firstID, listings[0].ID)
}
