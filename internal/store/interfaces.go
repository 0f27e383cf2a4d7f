package store

import (
	"context"

	"github.com/MKhiriev/go-user-accounts/models"
)

// UserRepository is the data-access contract for user accounts.
//
// All mutating operations that consume a purpose-scoped token
// (UpdatePassword, ConfirmEmail) are conditional on the caller-supplied
// security stamp and rotate it atomically in a single statement, so two
// concurrent token-consuming operations on the same user can never both
// succeed against a stale stamp.
type UserRepository interface {
	// CreateUser persists a new user record and returns it with
	// server-assigned fields populated.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail retrieves the user with the given e-mail address.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByID retrieves the user with the given identifier.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// UpdatePassword replaces the password hash of the user and rotates the
	// security stamp, provided the stored stamp still equals expectedStamp.
	UpdatePassword(ctx context.Context, userID int64, newHash, expectedStamp, newStamp string) (models.User, error)

	// ConfirmEmail marks the user's e-mail as confirmed and rotates the
	// security stamp, provided the stored stamp still equals expectedStamp.
	ConfirmEmail(ctx context.Context, userID int64, expectedStamp, newStamp string) (models.User, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
