// Package access decides whether a role-protected view may be rendered.
//
// A Controller starts in StateLoading while the session user and the role
// lookup are resolved, then settles in StateAuthorized or StateDenied. Any
// failure resolves to StateDenied.
package access

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/session"
	"github.com/google/uuid"
)

type State int

const (
	StateLoading State = iota
	StateAuthorized
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthorized:
		return "authorized"
	case StateDenied:
		return "denied"
	}
	return "unknown"
}

// RoleChecker answers "does user X hold role Y".
type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
}

// Decision is the settled outcome of a Controller.
type Decision struct {
	State      State
	User       *session.User
	RedirectTo string
}

// Gate holds the configuration shared by every Controller guarding one role.
type Gate struct {
	roles      RoleChecker
	role       models.Role
	redirectTo string
}

// NewGate returns a gate requiring role. Denied requests are sent to redirectTo.
func NewGate(roles RoleChecker, role models.Role, redirectTo string) *Gate {
	if redirectTo == "" {
		redirectTo = "/"
	}
	return &Gate{roles: roles, role: role, redirectTo: redirectTo}
}

func (g *Gate) Role() models.Role { return g.role }

// NewController returns a controller in StateLoading.
func (g *Gate) NewController() *Controller {
	return &Controller{gate: g, state: StateLoading}
}

// Check resolves a fresh controller in one call.
func (g *Gate) Check(ctx context.Context, lookup session.Lookup) Decision {
	return g.NewController().Resolve(ctx, lookup)
}

// Controller is a single-use state machine for one view request.
type Controller struct {
	gate *Gate

	mu       sync.RWMutex
	state    State
	decision Decision
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Resolve runs both lookups and settles the controller. Calling Resolve on a
// settled controller returns the earlier decision.
func (c *Controller) Resolve(ctx context.Context, lookup session.Lookup) Decision {
	c.mu.RLock()
	if c.state != StateLoading {
		d := c.decision
		c.mu.RUnlock()
		return d
	}
	c.mu.RUnlock()

	user, allowed := c.lookup(ctx, lookup)

	d := Decision{State: StateDenied, RedirectTo: c.gate.redirectTo}
	if user != nil && allowed {
		d = Decision{State: StateAuthorized, User: user}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateLoading {
		c.state = d.State
		c.decision = d
	}
	return c.decision
}

func (c *Controller) lookup(ctx context.Context, lookup session.Lookup) (*session.User, bool) {
	if lookup == nil {
		return nil, false
	}
	user, err := lookup(ctx)
	if err != nil {
		slog.Warn("session lookup failed", "error", err)
		return nil, false
	}
	if user == nil {
		return nil, false
	}
	if c.gate.roles == nil {
		return user, false
	}

	ok, err := c.gate.roles.HasRole(ctx, user.ID, c.gate.role)
	if err != nil {
		slog.Warn("role lookup failed", "user_id", user.ID.String(), "role", string(c.gate.role), "error", err)
		return user, false
	}
	return user, ok
}
