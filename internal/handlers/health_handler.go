package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	storageReady bool
}

func NewHealthHandler(storageReady bool) *HealthHandler {
	return &HealthHandler{storageReady: storageReady}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	storageStatus := "ok"
	if !h.storageReady {
		storageStatus = "not configured"
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Storage:   storageStatus,
	})
}
