package token

import "errors"

// Validation errors returned by [Manager.Parse] and by stamp comparison.
// The lifecycle service collapses all of them into a single user-facing
// "invalid token" outcome; these sentinels exist so the specific sub-reason
// can be logged internally.
var (
	// ErrTokenMalformed is returned when a token cannot be decoded, carries a
	// bad signature, or was issued by a different issuer.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenExpired is returned when the token's expiry window has passed.
	ErrTokenExpired = errors.New("token is expired")

	// ErrWrongPurpose is returned when a structurally valid token is presented
	// for an operation other than the one it was issued for. A confirmation
	// token must never reset a password and vice versa.
	ErrWrongPurpose = errors.New("token purpose mismatch")

	// ErrStampMismatch is returned when the security-stamp snapshot embedded
	// in the token no longer equals the user's current stamp. This is the sole
	// revocation mechanism: any credential or confirmation change rotates the
	// stamp and implicitly invalidates every outstanding token.
	ErrStampMismatch = errors.New("token security stamp mismatch")
)
