package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	tok, exp, err := m.GenerateAccessToken(42, "sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Same(t, m, DefaultJWT())
}

func TestParseAccessTokenRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	other := NewJWTManager("other", time.Hour)
	expired := NewJWTManager("secret", -time.Minute)

	foreign, _, err := other.GenerateAccessToken(1, "s")
	require.NoError(t, err)
	stale, _, err := expired.GenerateAccessToken(1, "s")
	require.NoError(t, err)
	anon, _, err := m.GenerateAccessToken(0, "s")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      stale,
		"missing user": anon,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.ParseAccessToken(tok)
			assert.Error(t, err)
		})
	}
}
