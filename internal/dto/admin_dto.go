package dto

import "github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateUserTypeRequest struct {
	UserType string `json:"user_type"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type AdminUsersResponse struct {
	Users []models.Profile `json:"users"`
	Total int              `json:"total"`
}

type AdminRolesResponse struct {
	Roles []models.UserRole `json:"roles"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
