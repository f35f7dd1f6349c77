package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/search"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	listings  *services.ListingService
	inquiries *services.InquiryService
	images    *services.ImageService
}

// NewListingHandler wires the listing endpoints. images may be nil when object
// storage is not configured; uploads are then refused.
func NewListingHandler(listings *services.ListingService, inquiries *services.InquiryService, images *services.ImageService) *ListingHandler {
	return &ListingHandler{listings: listings, inquiries: inquiries, images: images}
}

func (h *ListingHandler) Catalog(c *fiber.Ctx) error {
	return c.JSON(dto.CatalogResponse{
		Counties:           models.Counties,
		PropertyTypes:      models.PropertyTypes,
		SuggestedAmenities: models.SuggestedAmenities,
		DefaultMaxPrice:    search.DefaultMaxPrice,
	})
}

// List returns approved listings matching q, county, type and max_price.
func (h *ListingHandler) List(c *fiber.Ctx) error {
	spec := search.Spec{
		Text:         strings.TrimSpace(c.Query("q")),
		County:       c.Query("county", search.All),
		PropertyType: c.Query("type", search.All),
	}
	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.Atoi(raw)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "max_price must be an integer")
		}
		spec.MaxPrice = maxPrice
	}

	listings, err := h.listings.FetchApproved(c.UserContext())
	if err != nil {
		return serviceError(c, err, "list_listings")
	}

	matched := search.Filter(listings, spec)
	return c.JSON(dto.ListingsResponse{Listings: matched, Total: len(matched)})
}

// Get returns an approved listing, or a pending one to its owner.
func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, services.ErrListingNotFound.Error())
	}

	listing, err := h.listings.FetchVisible(c.UserContext(), id, session.OptionalUserID(c))
	if err != nil {
		return serviceError(c, err, "get_listing")
	}
	return c.JSON(listing)
}

// Mine returns every listing of the signed-in owner with its status.
func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	listings, err := h.listings.FetchByOwner(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "my_listings")
	}
	return c.JSON(dto.ListingsResponse{Listings: listings, Total: len(listings)})
}

// Inquiries returns the messages sent to one of the caller's listings.
func (h *ListingHandler) Inquiries(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, services.ErrListingNotFound.Error())
	}

	listing, err := h.listings.FetchByID(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err, "listing_inquiries")
	}
	if listing == nil || listing.OwnerID != userID {
		return errorJSON(c, fiber.StatusNotFound, services.ErrListingNotFound.Error())
	}

	inquiries, err := h.inquiries.FetchForListing(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err, "listing_inquiries")
	}
	return c.JSON(fiber.Map{"inquiries": inquiries, "total": len(inquiries)})
}

// Create accepts multipart fields plus up to eight "images" files. Images are
// stored first; the listing is only created when every accepted image was
// uploaded.
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Expected a multipart form")
	}

	in, err := listingInput(form)
	if err != nil {
		return serviceError(c, err, "create_listing")
	}

	ctx := c.UserContext()
	if err := h.listings.CanPost(ctx, userID); err != nil {
		return serviceError(c, err, "create_listing")
	}
	if err := h.listings.Validate(&in); err != nil {
		return serviceError(c, err, "create_listing")
	}

	var (
		rejected []dto.RejectedImage
		stored   []string
	)
	if files := form.File["images"]; len(files) > 0 {
		if h.images == nil {
			return errorJSON(c, fiber.StatusServiceUnavailable, "Image storage is not configured")
		}
		res, err := h.images.Upload(ctx, userID, imageFiles(files))
		if err != nil {
			return serviceError(c, err, "upload_images")
		}
		in.Images = res.URLs
		stored = res.Keys
		for _, r := range res.Rejected {
			rejected = append(rejected, dto.RejectedImage{Name: r.Name, Reason: r.Reason.Error()})
		}
	}

	listing, err := h.listings.Create(ctx, userID, in)
	if err != nil {
		if len(stored) > 0 {
			// best effort; failures are logged by the image service
			_ = h.images.Remove(context.WithoutCancel(ctx), stored)
		}
		return serviceError(c, err, "create_listing")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateListingResponse{
		Listing:        listing,
		RejectedImages: rejected,
	})
}

func listingInput(form *multipart.Form) (services.ListingInput, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	number := func(key string, required bool) (int, error) {
		raw := strings.TrimSpace(value(key))
		if raw == "" && !required {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, &services.ValidationError{Field: key, Message: "must be a whole number"}
		}
		return n, nil
	}

	price, err := number("price", true)
	if err != nil {
		return services.ListingInput{}, err
	}
	bedrooms, err := number("bedrooms", false)
	if err != nil {
		return services.ListingInput{}, err
	}
	bathrooms, err := number("bathrooms", false)
	if err != nil {
		return services.ListingInput{}, err
	}

	return services.ListingInput{
		Title:        value("title"),
		Description:  value("description"),
		Location:     value("location"),
		County:       value("county"),
		Type:         value("type"),
		Price:        price,
		Bedrooms:     bedrooms,
		Bathrooms:    bathrooms,
		Amenities:    form.Value["amenities"],
		ContactPhone: value("contact_phone"),
		ContactEmail: value("contact_email"),
	}, nil
}

func imageFiles(headers []*multipart.FileHeader) []services.ImageFile {
	files := make([]services.ImageFile, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, services.ImageFile{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}
