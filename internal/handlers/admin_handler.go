package handlers

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/search"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	admin    *services.AdminService
	listings *services.ListingService
	profiles *services.ProfileService
}

func NewAdminHandler(admin *services.AdminService, listings *services.ListingService, profiles *services.ProfileService) *AdminHandler {
	return &AdminHandler{admin: admin, listings: listings, profiles: profiles}
}

// Stats never fails; collections that could not be read count as empty.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.admin.Stats(c.UserContext()))
}

func (h *AdminHandler) Listings(c *fiber.Ctx) error {
	status := strings.ToLower(strings.TrimSpace(c.Query("status", search.All)))
	if status != search.All && status != "" {
		if _, err := models.ParseListingStatus(status); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "status must be all, pending, approved or rejected")
		}
	}

	listings, err := h.listings.FetchAll(c.UserContext())
	if err != nil {
		return serviceError(c, err, "admin_listings")
	}

	matched := search.FilterByStatus(listings, search.StatusSpec{
		Text:   strings.TrimSpace(c.Query("q")),
		Status: status,
	})
	return c.JSON(dto.ListingsResponse{Listings: matched, Total: len(matched)})
}

func (h *AdminHandler) UpdateListingStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid listing ID")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	status, err := models.ParseListingStatus(req.Status)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "status must be pending, approved or rejected")
	}

	if err := h.listings.UpdateStatus(c.UserContext(), id, status); err != nil {
		return serviceError(c, err, "update_status")
	}
	return c.JSON(dto.MessageResponse{Message: "Listing " + string(status)})
}

func (h *AdminHandler) DeleteListing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid listing ID")
	}

	if err := h.listings.Delete(c.UserContext(), id); err != nil {
		return serviceError(c, err, "delete_listing")
	}
	return c.JSON(dto.MessageResponse{Message: "Listing deleted"})
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	profiles, err := h.profiles.FetchAllProfiles(c.UserContext())
	if err != nil {
		return serviceError(c, err, "admin_users")
	}

	matched := search.FilterProfiles(profiles, strings.TrimSpace(c.Query("q")))
	return c.JSON(dto.AdminUsersResponse{Users: matched, Total: len(matched)})
}

func (h *AdminHandler) UpdateUserType(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req dto.UpdateUserTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	userType, err := models.ParseUserType(req.UserType)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "user_type must be owner or seeker")
	}

	if err := h.profiles.UpdateUserType(c.UserContext(), id, userType); err != nil {
		return serviceError(c, err, "update_user_type")
	}
	return c.JSON(dto.MessageResponse{Message: "User type updated"})
}

// UpdateRole assigns a role. Concurrent first assignments for one user may
// conflict; the losing request gets 409 and can be retried.
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "role must be user, moderator or admin")
	}

	if err := h.profiles.UpsertRole(c.UserContext(), id, role); err != nil {
		return serviceError(c, err, "update_role")
	}
	return c.JSON(dto.MessageResponse{Message: "Role updated"})
}

func (h *AdminHandler) Roles(c *fiber.Ctx) error {
	rows, err := h.profiles.FetchRoleRows(c.UserContext())
	if err != nil {
		return serviceError(c, err, "admin_roles")
	}
	return c.JSON(dto.AdminRolesResponse{Roles: rows})
}
