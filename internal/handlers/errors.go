package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

// serviceError maps service errors to responses. Store failures are logged
// and answered with a generic message.
func serviceError(c *fiber.Ctx, err error, action string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: verr.Error(), Field: verr.Field,
		})
	case errors.Is(err, services.ErrTooManyAmenities),
		errors.Is(err, services.ErrTooManyImages),
		errors.Is(err, services.ErrImageTooLarge),
		errors.Is(err, services.ErrImageType),
		errors.Is(err, services.ErrInappropriateContent):
		return errorJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrNotOwner):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrListingNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrRoleConflict):
		return errorJSON(c, fiber.StatusConflict, "Role update conflicted, please retry")
	case errors.Is(err, services.ErrImageUpload):
		slog.Error("image upload failed", "action", action, "error", err, "request_id", requestID(c))
		return errorJSON(c, fiber.StatusBadGateway, "Failed to upload images, please try again")
	}

	slog.Error("request failed",
		"action", action,
		"error", err,
		"request_id", requestID(c),
	)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
