package dto

import (
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
)

type ListingsResponse struct {
	Listings []models.Listing `json:"listings"`
	Total    int              `json:"total"`
}

// CreateListingResponse also reports image files that were skipped.
type CreateListingResponse struct {
	Listing        *models.Listing `json:"listing"`
	RejectedImages []RejectedImage `json:"rejected_images,omitempty"`
}

type RejectedImage struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type InquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type CatalogResponse struct {
	Counties           []string `json:"counties"`
	PropertyTypes      []string `json:"property_types"`
	SuggestedAmenities []string `json:"suggested_amenities"`
	DefaultMaxPrice    int      `json:"default_max_price"`
}

type UpdateProfileRequest struct {
	Phone string `json:"phone"`
}

type MeResponse struct {
	User    UserResponse    `json:"user"`
	Profile *models.Profile `json:"profile"`
}
