package handlers

import (
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type InquiryHandler struct {
	inquiries *services.InquiryService
}

func NewInquiryHandler(inquiries *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiries: inquiries}
}

// Create sends a contact message to the owner of an approved listing.
// Anonymous visitors may send inquiries; signed-in senders are recorded.
func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	listingID, err := parseID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, services.ErrListingNotFound.Error())
	}

	var req dto.InquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	inquiry, err := h.inquiries.Create(c.UserContext(), listingID, session.OptionalUserID(c), services.InquiryInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		return serviceError(c, err, "create_inquiry")
	}
	return c.Status(fiber.StatusCreated).JSON(inquiry)
}
