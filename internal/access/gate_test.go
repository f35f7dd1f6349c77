package access

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubRoles struct {
	ok    bool
	err   error
	calls int
}

func (s *stubRoles) HasRole(_ context.Context, _ uuid.UUID, _ models.Role) (bool, error) {
	s.calls++
	return s.ok, s.err
}

func userLookup(u *session.User, err error) session.Lookup {
	return func(context.Context) (*session.User, error) { return u, err }
}

func TestGateDecisions(t *testing.T) {
	someone := &session.User{ID: uuid.New(), Email: "admin@nyumba.test"}

	tests := []struct {
		name  string
		user  *session.User
		uerr  error
		roles *stubRoles
		want  State
	}{
		{"no user", nil, nil, &stubRoles{ok: true}, StateDenied},
		{"user without role", someone, nil, &stubRoles{ok: false}, StateDenied},
		{"user with role", someone, nil, &stubRoles{ok: true}, StateAuthorized},
		{"role lookup fails", someone, nil, &stubRoles{ok: true, err: errors.New("connection reset")}, StateDenied},
		{"session lookup fails", nil, errors.New("bad token"), &stubRoles{ok: true}, StateDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(tt.roles, models.RoleAdmin, "/")
			d := gate.Check(context.Background(), userLookup(tt.user, tt.uerr))
			assert.Equal(t, tt.want, d.State)
			if tt.want == StateDenied {
				assert.Equal(t, "/", d.RedirectTo)
				assert.Nil(t, d.User)
			} else {
				assert.Empty(t, d.RedirectTo)
				assert.Equal(t, tt.user, d.User)
			}
		})
	}
}

func TestGateSkipsRoleLookupWithoutUser(t *testing.T) {
	roles := &stubRoles{ok: true}
	NewGate(roles, models.RoleAdmin, "/").Check(context.Background(), userLookup(nil, nil))
	assert.Zero(t, roles.calls)
}

func TestControllerStartsLoadingAndSettlesOnce(t *testing.T) {
	roles := &stubRoles{ok: true}
	gate := NewGate(roles, models.RoleAdmin, "/browse")
	ctrl := gate.NewController()
	assert.Equal(t, StateLoading, ctrl.State())

	user := &session.User{ID: uuid.New()}
	d := ctrl.Resolve(context.Background(), userLookup(user, nil))
	assert.Equal(t, StateAuthorized, d.State)
	assert.Equal(t, StateAuthorized, ctrl.State())

	// later resolutions keep the first outcome
	roles.ok = false
	d = ctrl.Resolve(context.Background(), userLookup(user, nil))
	assert.Equal(t, StateAuthorized, d.State)
	assert.Equal(t, 1, roles.calls)
}

func TestGateNilCheckerFailsClosed(t *testing.T) {
	d := NewGate(nil, models.RoleAdmin, "").Check(context.Background(), userLookup(&session.User{ID: uuid.New()}, nil))
	assert.Equal(t, StateDenied, d.State)
	assert.Equal(t, "/", d.RedirectTo)
}
