package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func respond(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return serviceError(c, err, "test") })

	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestServiceErrorStatus(t *testing.T) {
	storeFailure := fmt.Errorf("fetch role: %w: %w", services.ErrStore, errors.New("connection refused"))
	roleConflict := fmt.Errorf("%w: %w", services.ErrRoleConflict,
		fmt.Errorf("insert role: %w: %w", services.ErrStore, gorm.ErrDuplicatedKey))

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &services.ValidationError{Field: "title", Message: "is required"}, fiber.StatusBadRequest},
		{"too many images", services.ErrTooManyImages, fiber.StatusUnprocessableEntity},
		{"content", services.ErrInappropriateContent, fiber.StatusUnprocessableEntity},
		{"not owner", services.ErrNotOwner, fiber.StatusForbidden},
		{"listing missing", services.ErrListingNotFound, fiber.StatusNotFound},
		{"upload", fmt.Errorf("%w: a.jpg: timeout", services.ErrImageUpload), fiber.StatusBadGateway},
		{"role conflict", roleConflict, fiber.StatusConflict},
		{"store failure", storeFailure, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := respond(t, tt.err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestServiceErrorHidesStoreDetails(t *testing.T) {
	_, body := respond(t, fmt.Errorf("fetch role: %w: %w", services.ErrStore, errors.New("password authentication failed")))
	assert.True(t, body.Error)
	assert.Equal(t, "Internal server error", body.Message)
}

func TestServiceErrorValidationField(t *testing.T) {
	_, body := respond(t, &services.ValidationError{Field: "email", Message: "must be a valid email address"})
	assert.Equal(t, "email", body.Field)
}
