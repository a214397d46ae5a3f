package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrValidation malformed input; the caller fixes it and retries
	ErrValidation = errors.New("validation error")

	// ErrConflict the range intersects a blocking booking (see ConflictError)
	ErrConflict = errors.New("date range conflict")

	// ErrPastItem the booking already lies in the past
	ErrPastItem = errors.New("booking is in the past")

	// ErrNotFound unknown booking id
	ErrNotFound = errors.New("booking not found")

	// ErrForbidden the asserted actor may not perform the operation
	ErrForbidden = errors.New("actor is not allowed to perform this operation")

	// ErrInvalidTransition the booking's status does not allow the operation
	ErrInvalidTransition = errors.New("operation is not allowed in the current status")

	// ErrInternalStorage the transaction failed after bounded retries
	ErrInternalStorage = errors.New("internal storage error")
)

// ValidationError names the offending field
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConflictError identifies the booking that already holds the dates
type ConflictError struct {
	BookingID uuid.UUID
	FirstName string
	Status    BookingStatus
}

// NewConflictError builds a ConflictError from the blocking booking
func NewConflictError(b *Booking) *ConflictError {
	return &ConflictError{BookingID: b.ID, FirstName: b.RequesterFirstName, Status: b.Status}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: overlaps booking of %s (%s)", ErrConflict, e.FirstName, e.Status)
}

// Is makes errors.Is(err, ErrConflict) match
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
