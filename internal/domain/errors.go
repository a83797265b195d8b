package domain

import "errors"

// Domain errors
var (
	// Event errors
	ErrEventNotFound = errors.New("event not found")

	// Coordinate errors
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// Booking errors
	ErrInsufficientTickets = errors.New("no tickets available")
	ErrTransactionConflict = errors.New("booking transaction conflict")
	ErrInvalidTicketCount  = errors.New("total tickets must be greater than zero")

	// Store errors
	ErrStoreUnavailable = errors.New("event store unavailable")

	// Notification errors
	ErrPermissionDenied = errors.New("notification permission denied")

	// Payment errors
	ErrOrderCreationFailed = errors.New("payment order creation failed")

	// Geocoding errors
	ErrAddressNotFound = errors.New("address could not be geocoded")
)

// IsNotFoundError checks if the error is a not found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrAddressNotFound)
}

// IsConflictError checks if the error is a conflict error.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrInsufficientTickets) || errors.Is(err, ErrTransactionConflict)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidCoordinate) || errors.Is(err, ErrInvalidTicketCount)
}
