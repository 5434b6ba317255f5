package service

import "errors"

var (
	ErrNameRequired = errors.New("Item name is required")
	ErrInvalidID    = errors.New("Valid item ID is required")
	ErrNotFound     = errors.New("Item not found")
)

// IsValidation reports whether err was caused by bad client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNameRequired) || errors.Is(err, ErrInvalidID)
}
