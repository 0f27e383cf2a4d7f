// Package token implements the purpose-scoped, stamp-bound tokens used for
// e-mail confirmation and password reset.
//
// A token is a signed HMAC-SHA256 JWT carrying the user id (sub), the
// declared purpose, and a snapshot of the user's security stamp. No token is
// stored server-side: validity is decided entirely from the signature, the
// expiry window, the purpose match, and (at the lifecycle layer) the stamp
// comparison against the user's current stamp.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-user-accounts/internal/config"
	"github.com/MKhiriev/go-user-accounts/models"
	"github.com/golang-jwt/jwt/v5"
)

// Purpose identifies the single operation a token may be used for.
type Purpose string

const (
	// PurposeEmailConfirmation scopes a token to the ConfirmEmail operation.
	PurposeEmailConfirmation Purpose = "email_confirmation"

	// PurposePasswordReset scopes a token to the ResetPassword operation.
	PurposePasswordReset Purpose = "password_reset"
)

// Claims is the JWT claim set of a purpose-scoped token.
type Claims struct {
	jwt.RegisteredClaims

	// Purpose is the operation this token was issued for.
	Purpose Purpose `json:"purpose"`

	// Stamp is the security-stamp snapshot taken at issuance time.
	Stamp string `json:"stamp"`
}

// UserID parses the subject claim as the owner's user id.
func (c *Claims) UserID() (int64, error) {
	if c.Subject == "" {
		return 0, errors.New("empty subject claim")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting subject to user id: %w", err)
	}

	return userID, nil
}

// MatchesStamp reports whether the embedded stamp snapshot equals the user's
// current security stamp.
func (c *Claims) MatchesStamp(currentStamp string) bool {
	return c.Stamp != "" && c.Stamp == currentStamp
}

// Manager issues and parses purpose-scoped tokens. All state is read-only
// after construction, so a single Manager is safe for concurrent use.
type Manager struct {
	signKey   string
	issuer    string
	durations map[Purpose]time.Duration
}

// NewManager constructs a Manager populated with security parameters from cfg.
func NewManager(cfg config.App) *Manager {
	return &Manager{
		signKey: cfg.TokenSignKey,
		issuer:  cfg.TokenIssuer,
		durations: map[Purpose]time.Duration{
			PurposeEmailConfirmation: cfg.ConfirmTokenDuration,
			PurposePasswordReset:     cfg.ResetTokenDuration,
		},
	}
}

// Issue creates a signed token for the given user and purpose, embedding the
// user's current security stamp. The token expires after the per-purpose
// duration configured at construction time.
func (m *Manager) Issue(user models.User, purpose Purpose) (string, error) {
	duration, ok := m.durations[purpose]
	if !ok || duration == 0 {
		return "", fmt.Errorf("no duration configured for purpose %q", purpose)
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(user.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Purpose: purpose,
		Stamp:   user.SecurityStamp,
	}

	signedString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing token: %w", err)
	}

	return signedString, nil
}

// Parse validates the given raw token string against the expected purpose.
//
// Validation includes:
//   - Signature verification using the configured sign key
//   - Issuer (iss) claim check
//   - Expiration (exp) claim check
//   - Purpose claim check against purpose
//
// Returns the decoded claims or one of [ErrTokenMalformed], [ErrTokenExpired],
// [ErrWrongPurpose]. The stamp comparison against the user's current stamp is
// left to the caller, which owns the store lookup.
func (m *Manager) Parse(raw string, purpose Purpose) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.signKey), nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}

	return claims, nil
}
