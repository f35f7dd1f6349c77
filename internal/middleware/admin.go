package middleware

import (
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// GateUserKey holds the *session.User of an authorized request.
const GateUserKey = "gate_user"

// RequireRole lets the request through only when the gate authorizes the
// session user. Every other outcome, including lookup failures, is answered
// with 303 See Other to the gate's redirect target and no body.
func RequireRole(gate *access.Gate) fiber.Handler {
	role := string(gate.Role())
	return func(c *fiber.Ctx) error {
		d := gate.Check(c.UserContext(), session.FiberLookup(c))
		metrics.AccessDecisions.WithLabelValues(role, d.State.String()).Inc()

		if d.State != access.StateAuthorized {
			return c.Redirect(d.RedirectTo, fiber.StatusSeeOther)
		}
		c.Locals(GateUserKey, d.User)
		return c.Next()
	}
}
