package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-user-accounts/models"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWeakPassword        = errors.New("password does not meet the strength requirements")

	// ErrUserNotFound is returned when an operation references a user record
	// that does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken is the single user-facing rejection for every
	// confirmation or reset code failure: bad signature, expiry, wrong
	// purpose, wrong owner, or a rotated security stamp. The precise
	// sub-reason is logged, never returned.
	ErrInvalidToken = errors.New("invalid or expired code")

	// ErrNotEligible is returned by ForgotPassword for any account that
	// cannot receive a reset code. Missing and unconfirmed accounts produce
	// this same value so the endpoint cannot be used to probe registrations.
	ErrNotEligible = errors.New("account is not eligible for password recovery")

	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)

// ValidationError carries per-field problems found in a request body.
// It matches ErrInvalidDataProvided under errors.Is.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field != "" {
			parts = append(parts, f.Field+": "+f.Message)
			continue
		}
		parts = append(parts, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDataProvided
}
