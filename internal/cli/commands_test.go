package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/stats"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testOpener(t *testing.T) (Opener, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return func() (*gorm.DB, error) { return db, nil }, db
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateAndGrantRole(t *testing.T) {
	open, db := testOpener(t)

	out, err := run(t, open, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated")

	id := uuid.New()
	out, err = run(t, open, "grant-role", id.String(), "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "is now admin")

	var row models.UserRole
	require.NoError(t, db.Where("user_id = ?", id).First(&row).Error)
	assert.Equal(t, models.RoleAdmin, row.Role)

	_, err = run(t, open, "grant-role", id.String(), "root")
	assert.ErrorIs(t, err, models.ErrUnknownRole)

	_, err = run(t, open, "grant-role", "not-a-uuid", "admin")
	assert.Error(t, err)
}

func TestSetUserTypeAndStatus(t *testing.T) {
	open, db := testOpener(t)
	_, err := run(t, open, "migrate")
	require.NoError(t, err)

	profile := models.Profile{ID: uuid.New(), UserType: models.UserTypeSeeker}
	require.NoError(t, db.Create(&profile).Error)
	listing := models.Listing{OwnerID: profile.ID, Title: "Flat", Description: "d", Location: "Westlands",
		County: "Nairobi", Price: 20000, Type: "Studio", Status: models.ListingPending}
	require.NoError(t, db.Create(&listing).Error)

	_, err = run(t, open, "set-user-type", profile.ID.String(), "owner")
	require.NoError(t, err)
	require.NoError(t, db.First(&profile, "id = ?", profile.ID).Error)
	assert.Equal(t, models.UserTypeOwner, profile.UserType)

	_, err = run(t, open, "set-status", listing.ID.String(), "approved")
	require.NoError(t, err)
	require.NoError(t, db.First(&listing, "id = ?", listing.ID).Error)
	assert.Equal(t, models.ListingApproved, listing.Status)

	out, err := run(t, open, "stats")
	require.NoError(t, err)
	var summary stats.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.TotalListings)
	assert.Equal(t, 100, summary.ApprovalRate)
	assert.Equal(t, 1, summary.Owners)
}

func TestPruneLogs(t *testing.T) {
	open, _ := testOpener(t)
	_, err := run(t, open, "migrate")
	require.NoError(t, err)

	out, err := run(t, open, "prune-logs", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 0 log records")

	_, err = run(t, open, "prune-logs", "--days", "0")
	assert.Error(t, err)
}
