package utils

import "github.com/google/uuid"

// NewSecurityStamp returns a fresh opaque stamp value for a user account.
// Time-ordered UUIDs are preferred so stamps sort roughly by rotation time.
func NewSecurityStamp() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
