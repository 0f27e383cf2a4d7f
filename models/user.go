package models

import "time"

// User represents an account entity used for authentication and the account
// lifecycle. It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is assigned by the database and never changes.
	UserID int64 `json:"id"`

	// Username is the unique user login identifier chosen at registration.
	Username string `json:"username"`

	// Email is the unique e-mail address of the user.
	Email string `json:"email"`

	// Name is the given name of the user. Non-sensitive, may be shown in UI.
	Name string `json:"name"`

	// Surname is the family name of the user.
	Surname string `json:"surname"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This value MUST be a hash, never plaintext.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	// EmailConfirmed reports whether the user has completed the e-mail
	// confirmation flow. New accounts start unconfirmed.
	EmailConfirmed bool `json:"email_confirmed"`

	// SecurityStamp is an opaque value rotated whenever credentials or the
	// confirmation state change. Purpose-scoped tokens embed a snapshot of
	// this value; rotating it implicitly invalidates every outstanding token
	// issued for the user. Never exposed via JSON.
	SecurityStamp string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last mutation of the record.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
