package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxSenderNameLen = 100
	MaxMessageLen    = 1000
)

// InquiryInput is a contact form submission.
type InquiryInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

type InquiryService struct {
	db       *gorm.DB
	listings *ListingService
	filter   *ContentFilter
}

func NewInquiryService(db *gorm.DB, listings *ListingService, filter *ContentFilter) *InquiryService {
	return &InquiryService{db: db, listings: listings, filter: filter}
}

// Validate trims the input in place and checks field limits.
func (s *InquiryService) Validate(in *InquiryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)

	switch {
	case in.Name == "":
		return invalid("name", "is required")
	case utf8.RuneCountInString(in.Name) > MaxSenderNameLen:
		return invalid("name", fmt.Sprintf("must be at most %d characters", MaxSenderNameLen))
	case in.Email == "":
		return invalid("email", "is required")
	case utf8.RuneCountInString(in.Phone) > MaxPhoneLen:
		return invalid("phone", fmt.Sprintf("must be at most %d characters", MaxPhoneLen))
	case in.Message == "":
		return invalid("message", "is required")
	case utf8.RuneCountInString(in.Message) > MaxMessageLen:
		return invalid("message", fmt.Sprintf("must be at most %d characters", MaxMessageLen))
	}
	if err := validateEmail("email", in.Email); err != nil {
		return err
	}
	return s.filter.screen(field{"message", in.Message})
}

// Create stores an inquiry for an approved listing. senderID is nil for
// anonymous visitors.
func (s *InquiryService) Create(ctx context.Context, listingID uuid.UUID, senderID *uuid.UUID, in InquiryInput) (*models.Inquiry, error) {
	if err := s.Validate(&in); err != nil {
		return nil, err
	}

	listing, err := s.listings.FetchByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil || !listing.IsPublic() {
		return nil, ErrListingNotFound
	}

	inquiry := models.Inquiry{
		ID:          uuid.New(),
		ListingID:   listingID,
		SenderName:  in.Name,
		SenderEmail: in.Email,
		SenderPhone: optional(in.Phone),
		Message:     in.Message,
		SenderID:    senderID,
	}
	if err := s.db.WithContext(ctx).Omit("Listing").Create(&inquiry).Error; err != nil {
		return nil, storeErr("create inquiry", err)
	}

	metrics.InquiriesSent.Inc()
	slog.Info("inquiry sent", "listing_id", listingID.String(), "action", "create_inquiry")
	return &inquiry, nil
}

// FetchAll returns every inquiry, newest first.
func (s *InquiryService) FetchAll(ctx context.Context) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	if err := s.db.WithContext(ctx).Scopes(newestFirst).Find(&inquiries).Error; err != nil {
		return nil, storeErr("fetch inquiries", err)
	}
	return inquiries, nil
}

// FetchForListing returns the inquiries sent to one listing, newest first.
func (s *InquiryService) FetchForListing(ctx context.Context, listingID uuid.UUID) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	err := s.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Scopes(newestFirst).
		Find(&inquiries).Error
	if err != nil {
		return nil, storeErr("fetch listing inquiries", err)
	}
	return inquiries, nil
}
