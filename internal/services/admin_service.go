package services

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/stats"
	"golang.org/x/sync/errgroup"
)

type ListingFetcher interface {
	FetchAll(ctx context.Context) ([]models.Listing, error)
}

type ProfileFetcher interface {
	FetchAllProfiles(ctx context.Context) ([]models.Profile, error)
}

type InquiryFetcher interface {
	FetchAll(ctx context.Context) ([]models.Inquiry, error)
}

// AdminService builds the dashboard summary.
type AdminService struct {
	listings  ListingFetcher
	profiles  ProfileFetcher
	inquiries InquiryFetcher
}

func NewAdminService(listings ListingFetcher, profiles ProfileFetcher, inquiries InquiryFetcher) *AdminService {
	return &AdminService{listings: listings, profiles: profiles, inquiries: inquiries}
}

// Stats fetches the three collections concurrently and reduces them. A failed
// fetch is logged and counted as an empty collection, so Stats never fails.
func (s *AdminService) Stats(ctx context.Context) stats.Summary {
	var (
		listings  []models.Listing
		profiles  []models.Profile
		inquiries []models.Inquiry
	)

	// Workers always return nil: one failure must not cancel the others.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listings = degrade(gctx, "listings", s.listings.FetchAll)
		return nil
	})
	g.Go(func() error {
		profiles = degrade(gctx, "profiles", s.profiles.FetchAllProfiles)
		return nil
	})
	g.Go(func() error {
		inquiries = degrade(gctx, "inquiries", s.inquiries.FetchAll)
		return nil
	})
	_ = g.Wait()

	return stats.Reduce(listings, profiles, inquiries)
}

func degrade[T any](ctx context.Context, collection string, fetch func(context.Context) ([]T, error)) []T {
	items, err := fetch(ctx)
	if err != nil {
		metrics.StatsFetchFailures.WithLabelValues(collection).Inc()
		slog.Warn("stats fetch failed, using empty collection", "collection", collection, "action", "admin_stats", "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}
