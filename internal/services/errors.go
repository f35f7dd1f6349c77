package services

import (
	"errors"
	"fmt"
)

// ErrStore marks failures of the relational store. Callers may retry.
var ErrStore = errors.New("store error")

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrNotOwner             = errors.New("only property owners can post listings")
	ErrInappropriateContent = errors.New("content does not meet our guidelines")
	ErrTooManyAmenities     = errors.New("too many amenities")
	ErrTooManyImages        = errors.New("too many images")
	ErrImageTooLarge        = errors.New("image exceeds the size limit")
	ErrImageType            = errors.New("unsupported image type")
	ErrImageUpload          = errors.New("image upload failed")
)

// ErrRoleConflict marks a role insert that lost to a concurrent first
// assignment for the same user. It always accompanies ErrStore.
var ErrRoleConflict = errors.New("role assignment conflicted")

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
