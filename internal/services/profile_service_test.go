package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestHasRoleDefaultsToUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	id := uuid.New()

	ok, err := svc.HasRole(context.Background(), id, models.RoleUser)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasRole(context.Background(), id, models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpsertRoleInsertThenUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, svc.UpsertRole(ctx, id, models.RoleModerator))
	require.NoError(t, svc.UpsertRole(ctx, id, models.RoleAdmin))

	rows, err := svc.FetchRoleRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.RoleAdmin, rows[0].Role)

	ok, err := svc.HasRole(ctx, id, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, svc.UpsertRole(ctx, id, models.Role("owner")), models.ErrUnknownRole)
}

// holdRoleReads makes the first two reads of user_roles wait for each other,
// so both callers observe "absent" before either inserts.
func holdRoleReads(t *testing.T, db *gorm.DB) {
	t.Helper()
	var arrivals atomic.Int32
	release := make(chan struct{})
	err := db.Callback().Query().Before("gorm:query").Register("test:hold_role_reads", func(tx *gorm.DB) {
		if tx.Statement.Table != "user_roles" {
			return
		}
		switch arrivals.Add(1) {
		case 1:
			<-release
		case 2:
			close(release)
		}
	})
	require.NoError(t, err)
}

func TestUpsertRoleConcurrentFirstAssignment(t *testing.T) {
	db := newTestDB(t)
	holdRoleReads(t, db)
	svc := NewProfileService(db)
	id := uuid.New()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, role := range []models.Role{models.RoleAdmin, models.RoleModerator} {
		wg.Add(1)
		go func(i int, role models.Role) {
			defer wg.Done()
			errs[i] = svc.UpsertRole(context.Background(), id, role)
		}(i, role)
	}
	wg.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0], ErrStore)
	assert.ErrorIs(t, failed[0], ErrRoleConflict)

	var rows []models.UserRole
	require.NoError(t, db.Where("user_id = ?", id).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Contains(t, []models.Role{models.RoleAdmin, models.RoleModerator}, rows[0].Role)

	// the losing caller can retry
	require.NoError(t, svc.UpsertRole(context.Background(), id, models.RoleModerator))
	ok, err := svc.HasRole(context.Background(), id, models.RoleModerator)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpsertRoleStoreFailureIsNotConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	require.NoError(t, db.Migrator().DropTable(&models.UserRole{}))

	err := svc.UpsertRole(context.Background(), uuid.New(), models.RoleAdmin)
	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrRoleConflict)
}

func TestHasRoleUnknownStoredRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	id := uuid.New()
	require.NoError(t, db.Create(&models.UserRole{ID: uuid.New(), UserID: id, Role: "superuser"}).Error)

	_, err := svc.HasRole(context.Background(), id, models.RoleAdmin)
	assert.ErrorIs(t, err, models.ErrUnknownRole)

	_, err = svc.FetchRoleRows(context.Background())
	assert.ErrorIs(t, err, models.ErrUnknownRole)
}

func TestUpdateUserType(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()
	id := seedProfile(t, db, models.UserTypeSeeker)

	require.NoError(t, svc.UpdateUserType(ctx, id, models.UserTypeOwner))
	p, err := svc.FetchProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeOwner, p.UserType)

	assert.ErrorIs(t, svc.UpdateUserType(ctx, uuid.New(), models.UserTypeOwner), ErrProfileNotFound)
	assert.ErrorIs(t, svc.UpdateUserType(ctx, id, models.UserType("landlord")), models.ErrUnknownUserType)
}

func TestUpdatePhone(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()
	id := seedProfile(t, db, models.UserTypeSeeker)

	p, err := svc.UpdatePhone(ctx, id, " 0712345678 ")
	require.NoError(t, err)
	require.NotNil(t, p.Phone)
	assert.Equal(t, "0712345678", *p.Phone)

	_, err = svc.UpdatePhone(ctx, id, strings.Repeat("9", MaxPhoneLen+1))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.FetchProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestFetchAllProfiles(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	seedProfile(t, db, models.UserTypeOwner)
	seedProfile(t, db, models.UserTypeSeeker)

	profiles, err := svc.FetchAllProfiles(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}
