package v1

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("", time.Hour)
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestTokenIssuer_IssueVerifyRoundtrip(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("super-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("42")
	require.NoError(t, err)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "42", userID)
}

func TestTokenIssuer_DefaultLifetime(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("super-secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenLifetime, issuer.lifetime)
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("super-secret", 24*time.Hour)
	require.NoError(t, err)

	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue("42")
	require.NoError(t, err)

	// Still valid just before expiry
	issuer.now = func() time.Time { return issued.Add(24*time.Hour - time.Minute) }
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	// Expired once the clock passes issued + lifetime
	issuer.now = func() time.Time { return issued.Add(24*time.Hour + time.Minute) }
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	right, err := NewTokenIssuer("right-secret", time.Hour)
	require.NoError(t, err)
	wrong, err := NewTokenIssuer("wrong-secret", time.Hour)
	require.NoError(t, err)

	token, err := right.Issue("42")
	require.NoError(t, err)

	_, err = wrong.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_Tampered(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("super-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("42")
	require.NoError(t, err)

	// Flip one character of the signature
	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	_, err = issuer.Verify(tampered)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("super-secret", time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "not.a.jwt", strings.Repeat("x", 200)} {
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", token)
	}
}
