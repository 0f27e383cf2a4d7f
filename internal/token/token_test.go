package token

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-user-accounts/internal/config"
	"github.com/MKhiriev/go-user-accounts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.App {
	return config.App{
		TokenSignKey:         "test-secret",
		TokenIssuer:          "test-issuer",
		ConfirmTokenDuration: time.Hour,
		ResetTokenDuration:   time.Hour,
	}
}

func testUser() models.User {
	return models.User{
		UserID:        42,
		Email:         "e@x.com",
		SecurityStamp: "stamp-1",
	}
}

func TestIssueParse_RoundTrip(t *testing.T) {
	m := NewManager(testConfig())
	user := testUser()

	for _, purpose := range []Purpose{PurposeEmailConfirmation, PurposePasswordReset} {
		t.Run(string(purpose), func(t *testing.T) {
			raw, err := m.Issue(user, purpose)
			require.NoError(t, err)
			require.NotEmpty(t, raw)

			claims, err := m.Parse(raw, purpose)
			require.NoError(t, err)

			userID, err := claims.UserID()
			require.NoError(t, err)
			assert.Equal(t, user.UserID, userID)
			assert.Equal(t, purpose, claims.Purpose)
			assert.True(t, claims.MatchesStamp(user.SecurityStamp))
		})
	}
}

func TestParse_WrongPurpose(t *testing.T) {
	m := NewManager(testConfig())

	raw, err := m.Issue(testUser(), PurposeEmailConfirmation)
	require.NoError(t, err)

	// a confirmation token must never pass as a reset token
	_, err = m.Parse(raw, PurposePasswordReset)
	assert.ErrorIs(t, err, ErrWrongPurpose)

	raw, err = m.Issue(testUser(), PurposePasswordReset)
	require.NoError(t, err)

	_, err = m.Parse(raw, PurposeEmailConfirmation)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestParse_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmTokenDuration = -time.Minute // already expired at issuance
	m := NewManager(cfg)

	raw, err := m.Issue(testUser(), PurposeEmailConfirmation)
	require.NoError(t, err)

	_, err = m.Parse(raw, PurposeEmailConfirmation)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_Malformed(t *testing.T) {
	m := NewManager(testConfig())

	_, err := m.Parse("not.a.token", PurposeEmailConfirmation)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParse_WrongKey(t *testing.T) {
	m := NewManager(testConfig())

	otherCfg := testConfig()
	otherCfg.TokenSignKey = "different-secret"
	other := NewManager(otherCfg)

	raw, err := other.Issue(testUser(), PurposeEmailConfirmation)
	require.NoError(t, err)

	_, err = m.Parse(raw, PurposeEmailConfirmation)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParse_WrongIssuer(t *testing.T) {
	m := NewManager(testConfig())

	otherCfg := testConfig()
	otherCfg.TokenIssuer = "other-issuer"
	other := NewManager(otherCfg)

	raw, err := other.Issue(testUser(), PurposeEmailConfirmation)
	require.NoError(t, err)

	_, err = m.Parse(raw, PurposeEmailConfirmation)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestIssue_NoDurationConfigured(t *testing.T) {
	m := NewManager(config.App{TokenSignKey: "secret", TokenIssuer: "iss"})

	_, err := m.Issue(testUser(), PurposeEmailConfirmation)
	assert.Error(t, err)
}

func TestMatchesStamp(t *testing.T) {
	m := NewManager(testConfig())
	user := testUser()

	raw, err := m.Issue(user, PurposePasswordReset)
	require.NoError(t, err)

	claims, err := m.Parse(raw, PurposePasswordReset)
	require.NoError(t, err)

	assert.True(t, claims.MatchesStamp("stamp-1"))
	// any stamp rotation invalidates the snapshot
	assert.False(t, claims.MatchesStamp("stamp-2"))
	assert.False(t, claims.MatchesStamp(""))
}

func TestClaims_UserID_Invalid(t *testing.T) {
	c := &Claims{}
	_, err := c.UserID()
	assert.Error(t, err)

	c.Subject = "not-a-number"
	_, err = c.UserID()
	assert.Error(t, err)
}
