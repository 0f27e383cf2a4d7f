package service

import (
	"fmt"
	"regexp"

	passwordvalidator "github.com/wagslane/go-password-validator"

	"github.com/MKhiriev/go-user-accounts/models"
)

// minPasswordEntropyBits is the minimum estimated entropy a password must
// have to be accepted.
const minPasswordEntropyBits = 60

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateRegisterRequest(req models.RegisterRequest) error {
	var fields []models.FieldError

	required := []struct {
		field string
		value string
	}{
		{"name", req.Name},
		{"surname", req.Surname},
		{"username", req.Username},
		{"email", req.Email},
		{"password", req.Password},
	}
	for _, r := range required {
		if r.value == "" {
			fields = append(fields, models.FieldError{Field: r.field, Message: "must not be empty"})
		}
	}

	if req.Email != "" && !emailPattern.MatchString(req.Email) {
		fields = append(fields, models.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	if req.Password != "" {
		if err := passwordvalidator.Validate(req.Password, minPasswordEntropyBits); err != nil {
			fields = append(fields, models.FieldError{Field: "password", Message: err.Error()})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

// validatePasswordStrength checks the candidate password against the entropy
// policy and wraps any rejection in ErrWeakPassword.
func validatePasswordStrength(password string) error {
	if err := passwordvalidator.Validate(password, minPasswordEntropyBits); err != nil {
		return fmt.Errorf("%w: %w", ErrWeakPassword, err)
	}

	return nil
}
