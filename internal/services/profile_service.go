package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// FetchAllProfiles returns every profile, newest first.
func (s *ProfileService) FetchAllProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Scopes(newestFirst).Find(&profiles).Error; err != nil {
		return nil, storeErr("fetch profiles", err)
	}
	for i := range profiles {
		if _, err := models.ParseUserType(string(profiles[i].UserType)); err != nil {
			return nil, fmt.Errorf("profile %s: %w", profiles[i].ID, err)
		}
	}
	return profiles, nil
}

func (s *ProfileService) FetchProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, storeErr("fetch profile", err)
	}
	return &profile, nil
}

// FetchRoleRows returns every explicit role assignment.
func (s *ProfileService) FetchRoleRows(ctx context.Context) ([]models.UserRole, error) {
	var rows []models.UserRole
	if err := s.db.WithContext(ctx).Scopes(newestFirst).Find(&rows).Error; err != nil {
		return nil, storeErr("fetch roles", err)
	}
	for i := range rows {
		if _, err := models.ParseRole(string(rows[i].Role)); err != nil {
			return nil, fmt.Errorf("role row %s: %w", rows[i].ID, err)
		}
	}
	return rows, nil
}

// RoleOf returns the user's current role. Users without a row hold RoleUser.
func (s *ProfileService) RoleOf(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	var row models.UserRole
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleUser, nil
	}
	if err != nil {
		return "", storeErr("fetch role", err)
	}
	return models.ParseRole(string(row.Role))
}

// HasRole reports whether the user currently holds role.
func (s *ProfileService) HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	current, err := s.RoleOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return current == role, nil
}

// UpdateUserType changes whether a profile may post listings.
func (s *ProfileService) UpdateUserType(ctx context.Context, profileID uuid.UUID, userType models.UserType) error {
	if _, err := models.ParseUserType(string(userType)); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("user_type", userType)
	if result.Error != nil {
		return storeErr("update user type", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	slog.Info("user type changed", "user_id", profileID.String(), "user_type", string(userType), "action", "update_user_type")
	return nil
}

// UpsertRole reads the user's role row and updates it, or inserts one when
// absent. The read and the write are separate statements: two concurrent
// first-time upserts can both miss the row, and the unique index on user_id
// then rejects the second insert with ErrStore and ErrRoleConflict. Retrying
// succeeds.
func (s *ProfileService) UpsertRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	if _, err := models.ParseRole(string(role)); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	var row models.UserRole
	err := db.Where("user_id = ?", userID).First(&row).Error
	switch {
	case err == nil:
		if err := db.Model(&row).Update("role", role).Error; err != nil {
			return storeErr("update role", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.UserRole{ID: uuid.New(), UserID: userID, Role: role}
		if err := db.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %w", ErrRoleConflict, storeErr("insert role", err))
			}
			return storeErr("insert role", err)
		}
	default:
		return storeErr("fetch role", err)
	}

	slog.Info("role assigned", "user_id", userID.String(), "role", string(role), "action", "upsert_role")
	return nil
}

// UpdatePhone sets or clears the caller's own phone number.
func (s *ProfileService) UpdatePhone(ctx context.Context, id uuid.UUID, phone string) (*models.Profile, error) {
	phone = strings.TrimSpace(phone)
	if utf8.RuneCountInString(phone) > MaxPhoneLen {
		return nil, invalid("phone", fmt.Sprintf("must be at most %d characters", MaxPhoneLen))
	}
	result := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("phone", optional(phone))
	if result.Error != nil {
		return nil, storeErr("update phone", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProfileNotFound
	}
	return s.FetchProfile(ctx, id)
}
