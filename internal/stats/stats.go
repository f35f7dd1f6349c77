// Package stats reduces raw listing, profile and inquiry collections into the
// admin dashboard summary. It performs no I/O.
package stats

import (
	"math"
	"sort"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
)

// RecentLimit is the number of entries kept for recent activity.
const RecentLimit = 5

type Summary struct {
	TotalListings    int              `json:"total_listings"`
	PendingListings  int              `json:"pending_listings"`
	ApprovedListings int              `json:"approved_listings"`
	RejectedListings int              `json:"rejected_listings"`
	ApprovalRate     int              `json:"approval_rate"`
	ListingsByType   map[string]int   `json:"listings_by_type"`
	TotalUsers       int              `json:"total_users"`
	Owners           int              `json:"owners"`
	Seekers          int              `json:"seekers"`
	TotalInquiries   int              `json:"total_inquiries"`
	RecentListings   []models.Listing `json:"recent_listings"`
	RecentUsers      []models.Profile `json:"recent_users"`
}

// Reduce computes the dashboard summary. Inputs are not modified.
func Reduce(listings []models.Listing, profiles []models.Profile, inquiries []models.Inquiry) Summary {
	s := Summary{
		TotalListings:  len(listings),
		ListingsByType: make(map[string]int),
		TotalUsers:     len(profiles),
		TotalInquiries: len(inquiries),
	}

	for i := range listings {
		switch listings[i].Status {
		case models.ListingPending:
			s.PendingListings++
		case models.ListingApproved:
			s.ApprovedListings++
		case models.ListingRejected:
			s.RejectedListings++
		}
		s.ListingsByType[listings[i].Type]++
	}

	for i := range profiles {
		switch profiles[i].UserType {
		case models.UserTypeOwner:
			s.Owners++
		case models.UserTypeSeeker:
			s.Seekers++
		}
	}

	s.ApprovalRate = ApprovalRate(s.ApprovedListings, s.TotalListings)
	s.RecentListings = recentListings(listings)
	s.RecentUsers = recentProfiles(profiles)
	return s
}

// ApprovalRate returns approved/total as a whole percentage, 0 when total is 0.
func ApprovalRate(approved, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(approved) / float64(total) * 100))
}

func recentListings(listings []models.Listing) []models.Listing {
	sorted := append([]models.Listing(nil), listings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	return sorted
}

func recentProfiles(profiles []models.Profile) []models.Profile {
	sorted := append([]models.Profile(nil), profiles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	return sorted
}
