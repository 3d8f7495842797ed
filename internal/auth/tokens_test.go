package auth

import (
	"crypto/rand"
	"strconv"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(newTestKey(t), time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(42, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestTokenService_SharedKeyVerifiesAcrossInstances(t *testing.T) {
	key := newTestKey(t)

	issuer, err := NewTokenService(key, time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService(key, time.Hour)
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken(7, "shared@example.com")
	require.NoError(t, err)

	claims, err := verifier.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestTokenService_RejectsWrongKey(t *testing.T) {
	svc, err := NewTokenService(newTestKey(t), time.Hour)
	require.NoError(t, err)
	other, err := NewTokenService(newTestKey(t), time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(1, "a@b.com")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc, err := NewTokenService(newTestKey(t), -time.Minute)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(1, "a@b.com")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(newTestKey(t), time.Hour)
	require.NoError(t, err)

	for _, bad := range []string{"", "not-a-token", "v4.local.AAAA"} {
		_, err := svc.VerifyAccessToken(bad)
		assert.Error(t, err, "token %q should be rejected", bad)
	}
}

func TestTokenService_RejectsNonNumericSubject(t *testing.T) {
	key := newTestKey(t)
	svc, err := NewTokenService(key, time.Hour)
	require.NoError(t, err)

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	require.NoError(t, err)

	// Build a token with the right issuer and audience but a bogus subject.
	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject("not-a-number")
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(time.Hour))

	_, err = svc.VerifyAccessToken(token.V4Encrypt(symmetricKey, nil))
	assert.Error(t, err)
}

func TestNewTokenService_RejectsShortKey(t *testing.T) {
	_, err := NewTokenService(make([]byte, 16), time.Hour)
	assert.Error(t, err)
}

func TestTokenService_SubjectMatchesUserID(t *testing.T) {
	svc, err := NewTokenService(newTestKey(t), time.Hour)
	require.NoError(t, err)

	for _, userID := range []int64{1, 99, 123456789} {
		token, err := svc.GenerateAccessToken(userID, "x@y.com")
		require.NoError(t, err)

		claims, err := svc.VerifyAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, strconv.FormatInt(userID, 10), claims.Subject)
	}
}
