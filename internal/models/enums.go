package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRole          = errors.New("unknown role")
	ErrUnknownUserType      = errors.New("unknown user type")
	ErrUnknownListingStatus = errors.New("unknown listing status")
)

// Role is an access-control tag attached to a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(strings.ToLower(s))); r {
	case RoleUser, RoleModerator, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// UserType is the marketplace-side classification controlling posting eligibility.
type UserType string

const (
	UserTypeOwner  UserType = "owner"
	UserTypeSeeker UserType = "seeker"
)

func ParseUserType(s string) (UserType, error) {
	switch t := UserType(strings.TrimSpace(strings.ToLower(s))); t {
	case UserTypeOwner, UserTypeSeeker:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUserType, s)
}

// ListingStatus is the moderation state of a listing. Only approved listings
// are publicly visible.
type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingApproved ListingStatus = "approved"
	ListingRejected ListingStatus = "rejected"
)

func ParseListingStatus(s string) (ListingStatus, error) {
	switch st := ListingStatus(strings.TrimSpace(strings.ToLower(s))); st {
	case ListingPending, ListingApproved, ListingRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownListingStatus, s)
}
