package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on create.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidTransition is returned when a booking status change is not allowed.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// ErrSlotUnavailable indicates the chosen date/time has no remaining capacity.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrCapacityExceeded indicates the guest total is above the tour's max_pax.
	ErrCapacityExceeded = errors.New("guest count exceeds tour capacity")
	// ErrInvalidPricing indicates a malformed pricing configuration.
	ErrInvalidPricing = errors.New("invalid pricing configuration")
	// ErrInvalidInput wraps request-level validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
