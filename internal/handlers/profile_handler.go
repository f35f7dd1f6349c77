package handlers

import (
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Update lets users change their own phone number. The user type is only
// changed by administrators.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	profile, err := h.profiles.UpdatePhone(c.UserContext(), userID, req.Phone)
	if err != nil {
		return serviceError(c, err, "update_profile")
	}
	return c.JSON(profile)
}
