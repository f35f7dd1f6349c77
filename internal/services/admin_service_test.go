package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeListings struct {
	items []models.Listing
	err   error
}

func (f fakeListings) FetchAll(context.Context) ([]models.Listing, error) { return f.items, f.err }

type fakeProfiles struct {
	items []models.Profile
	err   error
}

func (f fakeProfiles) FetchAllProfiles(context.Context) ([]models.Profile, error) {
	return f.items, f.err
}

type fakeInquiries struct {
	items []models.Inquiry
	err   error
}

func (f fakeInquiries) FetchAll(context.Context) ([]models.Inquiry, error) { return f.items, f.err }

func TestAdminStats(t *testing.T) {
	now := time.Now()
	listings := []models.Listing{
		{ID: uuid.New(), Status: models.ListingApproved, Type: "Apartment", CreatedAt: now},
		{ID: uuid.New(), Status: models.ListingApproved, Type: "Villa", CreatedAt: now.Add(-time.Hour)},
		{ID: uuid.New(), Status: models.ListingApproved, Type: "Apartment", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: uuid.New(), Status: models.ListingPending, Type: "Studio", CreatedAt: now.Add(-3 * time.Hour)},
	}
	profiles := []models.Profile{
		{ID: uuid.New(), UserType: models.UserTypeOwner},
		{ID: uuid.New(), UserType: models.UserTypeSeeker},
	}

	svc := NewAdminService(
		fakeListings{items: listings},
		fakeProfiles{items: profiles},
		fakeInquiries{items: []models.Inquiry{{ID: uuid.New()}}},
	)
	s := svc.Stats(context.Background())

	assert.Equal(t, 4, s.TotalListings)
	assert.Equal(t, 3, s.ApprovedListings)
	assert.Equal(t, 1, s.PendingListings)
	assert.Equal(t, 75, s.ApprovalRate)
	assert.Equal(t, 2, s.ListingsByType["Apartment"])
	assert.Equal(t, 1, s.Owners)
	assert.Equal(t, 1, s.Seekers)
	assert.Equal(t, 1, s.TotalInquiries)
}

func TestAdminStatsDegradesFailedFetch(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewAdminService(
		fakeListings{err: boom},
		fakeProfiles{items: []models.Profile{{ID: uuid.New(), UserType: models.UserTypeOwner}}},
		fakeInquiries{err: boom},
	)
	s := svc.Stats(context.Background())

	assert.Equal(t, 0, s.TotalListings)
	assert.Equal(t, 0, s.ApprovalRate)
	assert.Equal(t, 0, s.TotalInquiries)
	assert.Equal(t, 1, s.TotalUsers)
	assert.Equal(t, 1, s.Owners)
}

func TestAdminStatsAllFailed(t *testing.T) {
	boom := errors.New("down")
	svc := NewAdminService(fakeListings{err: boom}, fakeProfiles{err: boom}, fakeInquiries{err: boom})
	s := svc.Stats(context.Background())

	assert.Equal(t, 0, s.TotalListings)
	assert.Equal(t, 0, s.TotalUsers)
	assert.Empty(t, s.RecentListings)
	assert.Empty(t, s.RecentUsers)
}
