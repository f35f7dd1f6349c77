package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

const MinPasswordLen = 8

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	profiles *ProfileService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, profiles *ProfileService) *AuthService {
	return &AuthService{db: db, cfg: cfg, profiles: profiles}
}

// Register creates the account and its profile. Emails listed in
// ADMIN_EMAILS are granted the admin role.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateEmail("email", email); err != nil {
		return nil, err
	}
	if len(req.Password) < MinPasswordLen {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	fullName := strings.TrimSpace(req.FullName)
	if utf8.RuneCountInString(fullName) > MaxSenderNameLen {
		return nil, invalid("full_name", fmt.Sprintf("must be at most %d characters", MaxSenderNameLen))
	}
	phone := strings.TrimSpace(req.Phone)
	if utf8.RuneCountInString(phone) > MaxPhoneLen {
		return nil, invalid("phone", fmt.Sprintf("must be at most %d characters", MaxPhoneLen))
	}
	userType := models.UserTypeSeeker
	if req.UserType != "" {
		t, err := models.ParseUserType(req.UserType)
		if err != nil {
			return nil, invalid("user_type", "must be owner or seeker")
		}
		userType = t
	}

	db := s.db.WithContext(ctx)
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, storeErr("look up email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
	}
	profile := models.Profile{
		ID:       user.ID,
		FullName: optional(fullName),
		Phone:    optional(phone),
		UserType: userType,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&profile).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, storeErr("create user", err)
	}

	role := models.RoleUser
	if s.isAdminEmail(email) {
		if err := s.profiles.UpsertRole(ctx, user.ID, models.RoleAdmin); err != nil {
			slog.Error("admin bootstrap failed", "user_id", user.ID.String(), "action", "register", "error", err)
		} else {
			role = models.RoleAdmin
		}
	}

	return s.generateTokenPair(ctx, &user, &profile, role)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr("fetch user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueFor(ctx, &user)
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	db := s.db.WithContext(ctx)
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storeErr("fetch refresh token", err)
	}

	// Tokens are single use; a concurrent refresh that revoked it first wins.
	res := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", stored.ID, false).
		Update("revoked", true)
	if res.Error != nil {
		return nil, storeErr("revoke refresh token", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	return s.issueFor(ctx, &user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	err := s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
	if err != nil {
		return storeErr("revoke refresh token", err)
	}
	return nil
}

// Me describes the signed-in account.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("fetch user", err)
	}
	profile, err := s.profiles.FetchProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.profiles.RoleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: userResponse(&user, profile, role), Profile: profile}, nil
}

func (s *AuthService) issueFor(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	profile, err := s.profiles.FetchProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	role, err := s.profiles.RoleOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(ctx, user, profile, role)
}

func (s *AuthService) isAdminEmail(email string) bool {
	for _, e := range strings.Split(s.cfg.AdminEmails, ",") {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User, profile *models.Profile, role models.Role) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user, profile)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userResponse(user, profile, role),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User, profile *models.Profile) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"name":  profile.DisplayName(),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.WithContext(ctx).Omit("User").Create(&record).Error; err != nil {
		return "", storeErr("store refresh token", err)
	}

	return rawToken, nil
}

func userResponse(user *models.User, profile *models.Profile, role models.Role) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: profile.DisplayName(),
		UserType: string(profile.UserType),
		Role:     string(role),
	}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
