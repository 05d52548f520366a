// Package services defines the business logic for registering and listing
// schools. This file centralizes the service-level error values so that they
// can be consistently returned by service methods and checked by callers.
//
// Validation failures are *ValidationError values whose Message is safe to
// show to clients; the handler layer maps them to 400 responses. Any other
// error is an upstream (store or relay) failure.
package services

import (
	"errors"
	"fmt"
)

// ValidationError is a client-correctable problem with submitted school data.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Intake validation errors, in the order they are checked.
var (
	// ErrFieldsRequired is returned when any of the six text fields is
	// missing or blank.
	ErrFieldsRequired = &ValidationError{Message: "All fields are required"}

	// ErrInvalidEmail is returned when email_id is not of the form a@b.c.
	ErrInvalidEmail = &ValidationError{Message: "Invalid email format"}

	// ErrInvalidContact is returned when contact is not exactly ten digits.
	ErrInvalidContact = &ValidationError{Message: "Contact number must be 10 digits"}

	// ErrImageNotAllowed is returned when a relay rejects the uploaded file
	// as not being an image.
	ErrImageNotAllowed = &ValidationError{Message: "Only image files are allowed!"}
)

// ErrImageUpload is returned under the reject policy when the media relay
// fails for reasons other than the file type.
var ErrImageUpload = errors.New("Failed to upload image")

// tooShort returns the minimum-length error for a field label.
func tooShort(label string, n int) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf("%s must be at least %d characters", label, n)}
}
