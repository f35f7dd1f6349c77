// Package session exposes the authenticated user of a request. Handlers and
// middleware receive it explicitly instead of reading ambient state.
package session

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalsKey is where the JWT middleware stores the parsed token.
const LocalsKey = "user"

var (
	ErrNoSession     = errors.New("no authenticated session")
	ErrInvalidClaims = errors.New("invalid session claims")
)

// User is the current-session user as carried in the access token.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name,omitempty"`
}

// Lookup resolves the current-session user. A nil user with a nil error means
// nobody is signed in.
type Lookup func(ctx context.Context) (*User, error)

// FromFiber reads the session user from the JWT stored in the request locals.
func FromFiber(c *fiber.Ctx) (*User, error) {
	token, ok := c.Locals(LocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoSession
	}
	return FromToken(token)
}

// FromToken extracts the session user from verified token claims.
func FromToken(token *jwt.Token) (*User, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidClaims
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidClaims
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return &User{ID: id, Email: email, FullName: name}, nil
}

// UserID returns the session user's ID or ErrNoSession.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	u, err := FromFiber(c)
	if err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}

// OptionalUserID returns the session user's ID, or nil for anonymous requests.
func OptionalUserID(c *fiber.Ctx) *uuid.UUID {
	u, err := FromFiber(c)
	if err != nil {
		return nil
	}
	return &u.ID
}

// FiberLookup adapts FromFiber to a Lookup. A missing session is reported as
// "no user" rather than an error.
func FiberLookup(c *fiber.Ctx) Lookup {
	return func(context.Context) (*User, error) {
		u, err := FromFiber(c)
		if errors.Is(err, ErrNoSession) {
			return nil, nil
		}
		return u, err
	}
}
