package domain

import (
	"errors"
	"fmt"
)

// Request-level failures. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrConflict         = errors.New("conflict")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrPurchaseRequired = errors.New("purchase required to review")
	ErrDataIntegrity    = errors.New("data integrity fault")
	ErrBadCreds         = errors.New("invalid email or password")
	ErrUnauthenticated  = errors.New("authentication required")

	ErrInvalidRating   = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrDuplicateReview = fmt.Errorf("%w: product already reviewed", ErrConflict)
)

// Invalid wraps ErrValidation with a field-specific message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Missing wraps ErrNotFound naming the absent entity.
func Missing(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}
