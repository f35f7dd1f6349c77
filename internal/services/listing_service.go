package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaxTitleLen       = 120
	MaxDescriptionLen = 5000
	MaxLocationLen    = 255
	MaxPhoneLen       = 20
	MaxEmailLen       = 255
	MaxAmenities      = 20
)

// ListingInput is the owner-supplied part of a new listing.
type ListingInput struct {
	Title        string
	Description  string
	Location     string
	County       string
	Price        int
	Bedrooms     int
	Bathrooms    int
	Type         string
	Amenities    []string
	Images       []string
	ContactPhone string
	ContactEmail string
}

type ListingService struct {
	db     *gorm.DB
	filter *ContentFilter
}

func NewListingService(db *gorm.DB, filter *ContentFilter) *ListingService {
	return &ListingService{db: db, filter: filter}
}

// FetchApproved returns publicly visible listings, newest first.
func (s *ListingService) FetchApproved(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.WithContext(ctx).
		Scopes(withStatus(models.ListingApproved), newestFirst).
		Find(&listings).Error
	if err != nil {
		return nil, storeErr("fetch approved listings", err)
	}
	return listings, checkStatuses(listings)
}

// FetchAll returns every listing regardless of status, newest first.
func (s *ListingService) FetchAll(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.db.WithContext(ctx).Scopes(newestFirst).Find(&listings).Error; err != nil {
		return nil, storeErr("fetch listings", err)
	}
	return listings, checkStatuses(listings)
}

// FetchByID returns nil, nil when no listing has the id.
func (s *ListingService) FetchByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("fetch listing", err)
	}
	if _, err := models.ParseListingStatus(string(listing.Status)); err != nil {
		return nil, err
	}
	return &listing, nil
}

// FetchVisible returns the listing if it is approved or viewer owns it.
func (s *ListingService) FetchVisible(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*models.Listing, error) {
	listing, err := s.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if listing.IsPublic() || (viewer != nil && *viewer == listing.OwnerID) {
		return listing, nil
	}
	return nil, ErrListingNotFound
}

// FetchByOwner returns all listings of one owner, newest first.
func (s *ListingService) FetchByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.WithContext(ctx).
		Scopes(ownedBy(ownerID), newestFirst).
		Find(&listings).Error
	if err != nil {
		return nil, storeErr("fetch owner listings", err)
	}
	return listings, checkStatuses(listings)
}

// CanPost returns ErrNotOwner unless the user's profile is an owner profile.
func (s *ListingService) CanPost(ctx context.Context, userID uuid.UUID) error {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotOwner
	}
	if err != nil {
		return storeErr("fetch profile", err)
	}
	t, err := models.ParseUserType(string(profile.UserType))
	if err != nil {
		return err
	}
	if t != models.UserTypeOwner {
		return ErrNotOwner
	}
	return nil
}

// Validate normalises in place and checks every field except ownership.
func (s *ListingService) Validate(in *ListingInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.County = strings.TrimSpace(in.County)
	in.Type = strings.TrimSpace(in.Type)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)

	switch {
	case in.Title == "":
		return invalid("title", "is required")
	case utf8.RuneCountInString(in.Title) > MaxTitleLen:
		return invalid("title", fmt.Sprintf("must be at most %d characters", MaxTitleLen))
	case in.Description == "":
		return invalid("description", "is required")
	case utf8.RuneCountInString(in.Description) > MaxDescriptionLen:
		return invalid("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLen))
	case in.Location == "":
		return invalid("location", "is required")
	case utf8.RuneCountInString(in.Location) > MaxLocationLen:
		return invalid("location", fmt.Sprintf("must be at most %d characters", MaxLocationLen))
	case !models.IsCounty(in.County):
		return invalid("county", "is not a supported county")
	case !models.IsPropertyType(in.Type):
		return invalid("type", "is not a supported property type")
	case in.Price <= 0:
		return invalid("price", "must be positive")
	case in.Bedrooms < 0:
		return invalid("bedrooms", "must not be negative")
	case in.Bathrooms < 0:
		return invalid("bathrooms", "must not be negative")
	case utf8.RuneCountInString(in.ContactPhone) > MaxPhoneLen:
		return invalid("contact_phone", fmt.Sprintf("must be at most %d characters", MaxPhoneLen))
	}
	if in.ContactEmail != "" {
		if err := validateEmail("contact_email", in.ContactEmail); err != nil {
			return err
		}
	}

	in.Amenities = dedupe(in.Amenities)
	if len(in.Amenities) > MaxAmenities {
		return fmt.Errorf("%w: at most %d allowed", ErrTooManyAmenities, MaxAmenities)
	}
	if len(in.Images) > MaxImagesPerListing {
		return fmt.Errorf("%w: at most %d allowed", ErrTooManyImages, MaxImagesPerListing)
	}

	return s.filter.screen(
		field{"title", in.Title},
		field{"description", in.Description},
	)
}

// Create stores a new pending listing owned by ownerID.
func (s *ListingService) Create(ctx context.Context, ownerID uuid.UUID, in ListingInput) (*models.Listing, error) {
	if err := s.CanPost(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := s.Validate(&in); err != nil {
		return nil, err
	}
	if in.Images == nil {
		in.Images = []string{}
	}

	listing := models.Listing{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		County:       in.County,
		Price:        in.Price,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		Type:         in.Type,
		Amenities:    datatypes.NewJSONSlice(in.Amenities),
		Images:       datatypes.NewJSONSlice(in.Images),
		Status:       models.ListingPending,
		ContactPhone: optional(in.ContactPhone),
		ContactEmail: optional(in.ContactEmail),
	}
	if err := s.db.WithContext(ctx).Create(&listing).Error; err != nil {
		return nil, storeErr("create listing", err)
	}

	metrics.ListingsCreated.Inc()
	slog.Info("listing created", "listing_id", listing.ID.String(), "user_id", ownerID.String(), "action", "create_listing")
	return &listing, nil
}

// UpdateStatus sets the moderation status. Concurrent updates are last write wins.
func (s *ListingService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ListingStatus) error {
	if _, err := models.ParseListingStatus(string(status)); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return storeErr("update listing status", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListingNotFound
	}

	metrics.ListingStatusChanges.WithLabelValues(string(status)).Inc()
	slog.Info("listing status changed", "listing_id", id.String(), "status", string(status), "action", "update_status")
	return nil
}

// Delete removes a listing. Its inquiries go with it through the foreign key.
func (s *ListingService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id)
	if result.Error != nil {
		return storeErr("delete listing", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListingNotFound
	}
	slog.Info("listing deleted", "listing_id", id.String(), "action", "delete_listing")
	return nil
}

func checkStatuses(listings []models.Listing) error {
	for i := range listings {
		if _, err := models.ParseListingStatus(string(listings[i].Status)); err != nil {
			return fmt.Errorf("listing %s: %w", listings[i].ID, err)
		}
	}
	return nil
}

func validateEmail(name, email string) error {
	if utf8.RuneCountInString(email) > MaxEmailLen {
		return invalid(name, fmt.Sprintf("must be at most %d characters", MaxEmailLen))
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid(name, "must be a valid email address")
	}
	return nil
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
