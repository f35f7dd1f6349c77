package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return errorJSON(c, fiber.StatusConflict, err.Error())
		}
		return serviceError(c, err, "register")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return errorJSON(c, fiber.StatusUnauthorized, err.Error())
		}
		return serviceError(c, err, "login")
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusUnauthorized, services.ErrInvalidToken.Error())
		}
		return serviceError(c, err, "refresh")
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return serviceError(c, err, "logout")
	}

	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// Me returns the signed-in account with its profile and role.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	me, err := h.authService.Me(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "me")
	}
	return c.JSON(me)
}
