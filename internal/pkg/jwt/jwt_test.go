package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return New("test-secret", "epool-client", "epool-api", time.Hour, 168*time.Hour)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	s := newTestService()

	token, err := s.GenerateAccessToken("u1", "user@example.com", "Ada", "Lovelace", false)
	require.NoError(t, err)

	claims, err := s.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.FirstName)
	assert.False(t, claims.IsDeactivated)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	s := newTestService()

	token, err := s.GenerateRefreshToken("u1", "rot-1")
	require.NoError(t, err)

	sub, rotationID, err := s.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", sub)
	assert.Equal(t, "rot-1", rotationID)
}

func TestValidate_RejectsWrongSecret(t *testing.T) {
	token, err := newTestService().GenerateAccessToken("u1", "user@example.com", "", "", false)
	require.NoError(t, err)

	other := New("other-secret", "epool-client", "epool-api", time.Hour, 168*time.Hour)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidate_RejectsWrongAudienceAndIssuer(t *testing.T) {
	s := newTestService()
	token, err := s.GenerateAccessToken("u1", "user@example.com", "", "", false)
	require.NoError(t, err)

	wrongAud := New("test-secret", "someone-else", "epool-api", time.Hour, time.Hour)
	_, err = wrongAud.ValidateAccessToken(token)
	assert.Error(t, err)

	wrongIss := New("test-secret", "epool-client", "someone-else", time.Hour, time.Hour)
	_, err = wrongIss.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidate_RejectsExpired(t *testing.T) {
	s := New("test-secret", "epool-client", "epool-api", -time.Minute, -time.Minute)

	token, err := s.GenerateAccessToken("u1", "user@example.com", "", "", false)
	require.NoError(t, err)

	_, err = s.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidate_RejectsTokenTypeMixup(t *testing.T) {
	s := newTestService()

	refresh, err := s.GenerateRefreshToken("u1", "rot-1")
	require.NoError(t, err)

	// A refresh token parsed as access claims still verifies the signature,
	// but it carries no rotation id when read the other way around.
	access, err := s.GenerateAccessToken("u1", "user@example.com", "", "", false)
	require.NoError(t, err)

	_, rotationID, err := s.ParseRefreshToken(access)
	require.NoError(t, err)
	assert.Empty(t, rotationID)

	claims, err := s.ValidateAccessToken(refresh)
	require.NoError(t, err)
	assert.Empty(t, claims.Email)
}
